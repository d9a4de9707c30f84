package table

import "encoding/json"

type tableJSON struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...]]},
// with empty arrays rather than nulls so API consumers can index blindly.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Columns: t.Columns, Rows: t.Rows}
	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]string{}
	}
	return json.Marshal(out)
}
