package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTableSource_LocalCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,City\nAcme,Reno\n"), 0o644))

	tab, err := ReadTableSource(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "City"}, tab.Columns)
	assert.Equal(t, 1, tab.Len())
}

func TestReadTableSource_LocalXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"Name"}, {"Acme"}},
	})

	tab, err := ReadTableSource(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, tab.Columns)
	assert.Equal(t, 1, tab.Len())
}

func TestReadTableSource_LocalMissing(t *testing.T) {
	_, err := ReadTableSource(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetcher: open")
}

func TestReadTableSource_HTTPCSV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Name,City\nAcme,Reno\n"))
	}))
	defer srv.Close()

	tab, err := ReadTableSource(context.Background(), srv.URL+"/export/leads.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "City"}, tab.Columns)
	assert.Equal(t, 1, tab.Len())
}

func TestReadTableSource_HTTPXLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"Name"}, {"Acme"}},
	})
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	// The query string must not confuse format detection.
	tab, err := ReadTableSource(context.Background(), srv.URL+"/export/leads.xlsx?v=2", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, tab.Columns)
	assert.Equal(t, 1, tab.Len())
}

func TestReadTableSource_UnsupportedScheme(t *testing.T) {
	_, err := ReadTableSource(context.Background(), "gopher://host/leads.csv", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scheme")
}

func TestParseTable_PicksFormatByName(t *testing.T) {
	xlsxPath := createTestXLSX(t, map[string][][]string{
		"Sheet1": {{"Name"}, {"Acme"}},
	})
	xlsxData, err := os.ReadFile(xlsxPath)
	require.NoError(t, err)

	tab, err := ParseTable(xlsxData, "upload.XLSX", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, tab.Columns)

	tab, err = ParseTable([]byte("Name\nAcme\n"), "upload.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, tab.Columns)
	assert.Equal(t, 1, tab.Len())
}

func TestSourceScheme(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"plain path", "data/leads.csv", ""},
		{"absolute path", "/srv/data/leads.csv", ""},
		{"http", "http://host/leads.csv", "http"},
		{"https", "https://host/leads.csv", "https"},
		{"ftp", "ftp://host/leads.csv", "ftp"},
		{"windows drive letter", `C:\exports\leads.csv`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sourceScheme(tt.source))
		})
	}
}
