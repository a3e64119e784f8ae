// Package commands implements the joingraph subcommands.
package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/joingraph/internal/cli/config"
	"github.com/leapstack-labs/joingraph/internal/loader"
	"github.com/leapstack-labs/joingraph/pkg/export"
	"github.com/leapstack-labs/joingraph/pkg/relation"
)

// summaryRowLimit caps the console table; the full list is in the CSVs.
const summaryRowLimit = 25

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [path ...]",
		Short: "Extract join relationships from SQL and mapper files",
		Long: `Analyze .sql files and MyBatis mapper .xml files under the given paths
and write the detected table relationships to the output directory:

  <prefix>_relationships.csv       table and column pairs
  <prefix>_relationships_full.csv  with inferred column definitions
  <prefix>_graph.dot               Graphviz source of the table graph
  <prefix>_interactive.html        interactive network page
  <prefix>_summary.txt             plain-text report

Without arguments the configured input directory is analyzed.`,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{
			InputDir:  config.DefaultInputDir,
			OutputDir: config.DefaultOutputDir,
			Prefix:    config.DefaultPrefix,
		}
	}
	logger := config.GetLogger(cmd.Context())

	paths := args
	if len(paths) == 0 {
		paths = []string{cfg.InputDir}
	}

	sources, err := loader.Load(cmd.Context(), paths, logger)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no SQL found under %s", strings.Join(paths, ", "))
	}

	var files []string
	var queries []string
	for _, src := range sources {
		files = append(files, src.Path)
		queries = append(queries, src.Queries...)
	}
	logger.Info("analyzing queries", "files", len(files), "queries", len(queries))

	analyzer := relation.NewAnalyzer(relation.WithLogger(logger))
	res := analyzer.AnalyzeQueries(queries)

	if err := writeArtifacts(cfg, res, files); err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), cfg, res, len(files))
	return nil
}

func writeArtifacts(cfg *config.Config, res *relation.Result, files []string) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	artifacts := []struct {
		suffix string
		write  func(io.Writer) error
	}{
		{"_relationships.csv", func(w io.Writer) error {
			return export.WriteCSV(w, res.Relationships)
		}},
		{"_relationships_full.csv", func(w io.Writer) error {
			return export.WriteCSVWithTypes(w, res.Relationships)
		}},
		{"_graph.dot", func(w io.Writer) error {
			return export.WriteDOT(w, res.Graph)
		}},
		{"_interactive.html", func(w io.Writer) error {
			return export.WriteHTML(w, res)
		}},
		{"_summary.txt", func(w io.Writer) error {
			return export.WriteSummary(w, res, files)
		}},
	}

	for _, artifact := range artifacts {
		path := filepath.Join(cfg.OutputDir, cfg.Prefix+artifact.suffix)
		if err := writeArtifact(path, artifact.write); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func printSummary(w io.Writer, cfg *config.Config, res *relation.Result, fileCount int) {
	fmt.Fprintf(w, "Analyzed %d files: %d relationships across %d tables\n",
		fileCount, len(res.Relationships), len(res.Tables()))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Table 1", "Column 1", "Type 1", "Table 2", "Column 2", "Type 2"})
	rows := 0
	for _, rel := range res.Relationships {
		if rel.Table1 == "" || rel.Table2 == "" {
			continue
		}
		if rows == summaryRowLimit {
			t.AppendFooter(table.Row{"", "", "", "", "",
				fmt.Sprintf("+%d more", len(res.Relationships)-rows)})
			break
		}
		t.AppendRow(table.Row{
			rel.Table1, rel.Column1, rel.ColumnType1,
			rel.Table2, rel.Column2, rel.ColumnType2,
		})
		rows++
	}
	if rows > 0 {
		t.Render()
	}

	fmt.Fprintf(w, "Artifacts written to %s (prefix %q)\n", cfg.OutputDir, cfg.Prefix)
}
