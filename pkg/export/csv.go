// Package export renders analysis results as CSV, Graphviz DOT, an
// interactive HTML network and a plain-text summary.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/leapstack-labs/joingraph/pkg/relation"
)

// WriteCSV writes relationships as four columns: table1, column1,
// table2, column2.
func WriteCSV(w io.Writer, rels []relation.Relationship) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"table1", "column1", "table2", "column2"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rels {
		if err := cw.Write([]string{r.Table1, r.Column1, r.Table2, r.Column2}); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVWithTypes writes relationships with the inferred column
// definitions alongside each column.
func WriteCSVWithTypes(w io.Writer, rels []relation.Relationship) error {
	cw := csv.NewWriter(w)
	header := []string{
		"table1", "column1", "column_definition1",
		"table2", "column2", "column_definition2",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range rels {
		row := []string{
			r.Table1, r.Column1, r.ColumnType1,
			r.Table2, r.Column2, r.ColumnType2,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
