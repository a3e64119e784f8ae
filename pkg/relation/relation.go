// Package relation extracts table-to-table join relationships from SQL.
//
// The analyzer walks parsed statements looking for explicit JOIN ... ON
// equalities, USING clauses, NATURAL joins and legacy comma-separated FROM
// lists correlated through the WHERE clause. Aliases are resolved to their
// underlying table names and subqueries are descended recursively. Results
// are deduplicated and exposed both as a flat relationship list and as a
// directed graph keyed by table name.
package relation

import "strings"

// Relationship is one detected join edge between two table columns.
// Table1 may be empty when the left side could not be resolved, for
// example in a NATURAL join where no column pair is spelled out.
type Relationship struct {
	Table1      string
	Column1     string
	ColumnType1 string
	Table2      string
	Column2     string
	ColumnType2 string
}

// Key returns the identity used when merging relationships across queries.
// Column types are derived from the column names, so the four name fields
// are sufficient.
func (r Relationship) Key() string {
	return r.Table1 + "\x00" + r.Column1 + "\x00" + r.Table2 + "\x00" + r.Column2
}

// NaturalColumn is the placeholder column recorded for NATURAL joins,
// where the joined columns are implied rather than written.
const NaturalColumn = "NATURAL"

// InferColumnType guesses a column definition from naming conventions.
// The rules are checked in order; the first match wins.
func InferColumnType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case name == "" || name == NaturalColumn:
		return "UNKNOWN"
	case lower == "id":
		return "INT PRIMARY KEY"
	case strings.HasSuffix(lower, "_id"):
		return "INT FOREIGN KEY"
	case strings.HasSuffix(lower, "_at") || strings.HasSuffix(lower, "_time"):
		return "DATETIME"
	case strings.HasSuffix(lower, "_date"):
		return "DATE"
	case strings.HasSuffix(lower, "_count") || strings.HasSuffix(lower, "_num"):
		return "INT"
	case strings.HasSuffix(lower, "_flag") || strings.HasPrefix(lower, "is_"):
		return "BOOLEAN"
	default:
		return "VARCHAR(255)"
	}
}

// newRelationship builds a Relationship with both column types inferred.
func newRelationship(table1, column1, table2, column2 string) Relationship {
	return Relationship{
		Table1:      table1,
		Column1:     column1,
		ColumnType1: InferColumnType(column1),
		Table2:      table2,
		Column2:     column2,
		ColumnType2: InferColumnType(column2),
	}
}
