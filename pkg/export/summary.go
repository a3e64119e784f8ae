package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/joingraph/pkg/relation"
)

// WriteSummary writes a plain-text report: counts, the numbered
// relationship list with inferred column types, detected tables and the
// analyzed source files.
func WriteSummary(w io.Writer, res *relation.Result, files []string) error {
	tables := res.Tables()

	var b strings.Builder
	b.WriteString("=== SQL Join Analysis Summary ===\n\n")
	fmt.Fprintf(&b, "Analyzed files: %d\n", len(files))
	fmt.Fprintf(&b, "Relationships: %d\n", len(res.Relationships))
	fmt.Fprintf(&b, "Tables: %d\n\n", len(tables))

	b.WriteString("=== Relationships ===\n")
	for i, rel := range res.Relationships {
		if rel.Table1 == "" || rel.Table2 == "" {
			continue
		}
		fmt.Fprintf(&b, "%3d. %s.%s (%s) -> %s.%s (%s)\n",
			i+1,
			rel.Table1, rel.Column1, rel.ColumnType1,
			rel.Table2, rel.Column2, rel.ColumnType2)
	}

	b.WriteString("\n=== Tables ===\n")
	for _, table := range tables {
		fmt.Fprintf(&b, "- %s\n", table)
	}

	b.WriteString("\n=== Files ===\n")
	for _, file := range files {
		fmt.Fprintf(&b, "- %s\n", file)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
