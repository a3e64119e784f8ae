package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, DefaultPrefix, cfg.Prefix)
	assert.Equal(t, DefaultServePort, cfg.ServePort)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "joingraph.yaml")
	content := "output_dir: artifacts\nprefix: myproject\nserve_port: 9000\n"
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, "artifacts", cfg.OutputDir)
	assert.Equal(t, "myproject", cfg.Prefix)
	assert.Equal(t, 9000, cfg.ServePort)
	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, cfgFile, GetConfigFileUsed())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "joingraph.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("prefix: fromfile\n"), 0o644))
	t.Setenv("JOINGRAPH_PREFIX", "fromenv")

	cfg, err := LoadConfig(cfgFile, nil)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.Prefix)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	t.Setenv("JOINGRAPH_OUTPUT_DIR", "fromenv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", "", "")
	flags.Bool("verbose", false, "")
	require.NoError(t, flags.Parse([]string{"--out", "fromflag", "--verbose"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "fromflag", cfg.OutputDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigUnsetFlagsIgnored(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("out", "flagdefault", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
}

func TestLoadConfigBadFile(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}
