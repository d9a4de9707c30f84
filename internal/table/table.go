// Package table holds the minimal tabular model the dedup engine operates
// on: an ordered header plus rows of strings. Every column except the
// configured identity column is opaque to the engine and passed through
// unchanged, so nothing here knows about spreadsheets or databases.
package table

import "strings"

// Table is an ordered set of named columns and string-valued rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// FromRows builds a table from raw rows where the first row is the header.
// Data rows are width-normalized against the header. An empty input yields
// an empty table with no columns; callers that require specific columns
// surface that as a schema error.
func FromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	t := New(rows[0]...)
	for _, row := range rows[1:] {
		t.Append(row)
	}
	return t
}

// FromColumn builds a single-column table, one row per value. Roster
// sources that only produce client names use this to satisfy the engine's
// two-table contract.
func FromColumn(name string, values []string) *Table {
	t := New(name)
	for _, v := range values {
		t.Append([]string{v})
	}
	return t
}

// Append adds a row, padding or truncating it to the table's width so every
// row can be indexed by column position without bounds checks downstream.
func (t *Table) Append(row []string) {
	width := len(t.Columns)
	r := make([]string, width)
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex finds a column by name, ignoring case and surrounding
// whitespace. Spreadsheet headers arrive hand-typed; "Company Name " and
// "company name" are the same column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, c := range t.Columns {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return i, true
		}
	}
	return -1, false
}

// Values returns all cell values of the named column in row order.
func (t *Table) Values(name string) ([]string, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	vals := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		vals = append(vals, row[idx])
	}
	return vals, true
}
