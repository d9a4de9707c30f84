package table

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rows     [][]string
		wantCols []string
		wantRows [][]string
	}{
		{
			name:     "header plus data",
			rows:     [][]string{{"Company Name", "City"}, {"Acme", "Reno"}, {"Zyx", "Boise"}},
			wantCols: []string{"Company Name", "City"},
			wantRows: [][]string{{"Acme", "Reno"}, {"Zyx", "Boise"}},
		},
		{
			name:     "ragged rows normalized to header width",
			rows:     [][]string{{"A", "B"}, {"1"}, {"1", "2", "3"}},
			wantCols: []string{"A", "B"},
			wantRows: [][]string{{"1", ""}, {"1", "2"}},
		},
		{
			name:     "header only",
			rows:     [][]string{{"A", "B"}},
			wantCols: []string{"A", "B"},
			wantRows: nil,
		},
		{
			name:     "empty input",
			rows:     nil,
			wantCols: nil,
			wantRows: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tab := FromRows(tt.rows)
			assert.Equal(t, tt.wantCols, tab.Columns)
			assert.Equal(t, tt.wantRows, tab.Rows)
		})
	}
}

func TestFromColumn(t *testing.T) {
	t.Parallel()

	tab := FromColumn("Client Name", []string{"Acme Corp", "Zyx Inc"})
	assert.Equal(t, []string{"Client Name"}, tab.Columns)
	require.Equal(t, 2, tab.Len())
	assert.Equal(t, [][]string{{"Acme Corp"}, {"Zyx Inc"}}, tab.Rows)
}

func TestAppendPadsAndTruncates(t *testing.T) {
	t.Parallel()

	tab := New("A", "B", "C")
	tab.Append([]string{"1"})
	tab.Append([]string{"1", "2", "3", "4"})

	require.Equal(t, 2, tab.Len())
	assert.Equal(t, []string{"1", "", ""}, tab.Rows[0])
	assert.Equal(t, []string{"1", "2", "3"}, tab.Rows[1])
}

func TestColumnIndex(t *testing.T) {
	t.Parallel()

	tab := New("Company Name ", "City")

	tests := []struct {
		name    string
		lookup  string
		wantIdx int
		wantOK  bool
	}{
		{"exact", "City", 1, true},
		{"case insensitive", "company name", 0, true},
		{"surrounding whitespace", "  Company Name", 0, true},
		{"missing", "State", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			idx, ok := tab.ColumnIndex(tt.lookup)
			assert.Equal(t, tt.wantIdx, idx)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	tab := FromRows([][]string{
		{"Name", "City"},
		{"Acme", "Reno"},
		{"Zyx", "Boise"},
	})

	vals, ok := tab.Values("name")
	require.True(t, ok)
	assert.Equal(t, []string{"Acme", "Zyx"}, vals)

	_, ok = tab.Values("State")
	assert.False(t, ok)
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("empty table emits arrays not nulls", func(t *testing.T) {
		t.Parallel()
		out, err := json.Marshal(&Table{})
		require.NoError(t, err)
		assert.JSONEq(t, `{"columns":[],"rows":[]}`, string(out))
	})

	t.Run("populated table", func(t *testing.T) {
		t.Parallel()
		tab := FromRows([][]string{{"Name"}, {"Acme"}})
		out, err := json.Marshal(tab)
		require.NoError(t, err)
		assert.JSONEq(t, `{"columns":["Name"],"rows":[["Acme"]]}`, string(out))
	})
}
