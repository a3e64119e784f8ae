package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/joingraph/internal/cli/config"
)

func TestAnalyzeCommandEndToEnd(t *testing.T) {
	input := t.TempDir()
	out := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(input, "users.sql"), []byte(`
		SELECT u.username, p.title
		FROM users u
		JOIN posts p ON u.id = p.user_id
	`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(input, "orders.xml"), []byte(`<mapper namespace="M">
  <select id="byCustomer">
    SELECT * FROM orders o JOIN customers c ON o.customer_id = c.id
    WHERE c.region = #{region}
  </select>
</mapper>`), 0o644))

	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Setenv("JOINGRAPH_OUTPUT_DIR", out)
	t.Setenv("JOINGRAPH_PREFIX", "testrun")
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	cmd := NewAnalyzeCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{input})
	require.NoError(t, cmd.Execute())

	for _, name := range []string{
		"testrun_relationships.csv",
		"testrun_relationships_full.csv",
		"testrun_graph.dot",
		"testrun_interactive.html",
		"testrun_summary.txt",
	} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}

	csvData, err := os.ReadFile(filepath.Join(out, "testrun_relationships.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "users,id,posts,user_id")
	assert.Contains(t, string(csvData), "orders,customer_id,customers,id")

	assert.Contains(t, buf.String(), "2 relationships across 4 tables")
	assert.Contains(t, buf.String(), "TYPE 1")
	assert.Contains(t, buf.String(), "TYPE 2")
	assert.Contains(t, buf.String(), "INT PRIMARY KEY")
	assert.Contains(t, buf.String(), "INT FOREIGN KEY")
}

func TestAnalyzeCommandNoInput(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	_, err := config.LoadConfig("", nil)
	require.NoError(t, err)

	empty := t.TempDir()
	cmd := NewAnalyzeCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{empty})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SQL found")
}
