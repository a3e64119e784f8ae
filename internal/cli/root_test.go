package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/joingraph/internal/cli/config"
)

func TestRootCommandVersionSubcommand(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version subcommand failed: %v", err)
	}
	if !strings.Contains(buf.String(), "joingraph v") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCmd()
	want := map[string]bool{"analyze": false, "serve": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(t.Context())
	if cfg.OutputDir != config.DefaultOutputDir {
		t.Errorf("expected default output dir, got %q", cfg.OutputDir)
	}
}
