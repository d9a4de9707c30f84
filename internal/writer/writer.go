// Package writer renders dedup results to files: the three output tables
// as CSV or XLSX, singly or bundled into a zip archive.
package writer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/table"
)

// Output file stems. The extension follows the chosen format.
const (
	CleanedName = "cleaned_leads"
	ReviewName  = "potential_matches_to_review"
	RemovedName = "exact_matches_removed"
)

// Format selects the spreadsheet format for output files.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name from config or a query parameter.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", eris.Errorf("writer: unknown output format %q (want csv or xlsx)", s)
}

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// WriteTableCSV writes a table as CSV, header first.
func WriteTableCSV(t *table.Table, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return eris.Wrap(err, "writer: write csv header")
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "writer: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "writer: flush csv")
	}
	return nil
}

// WriteTableXLSX writes a table as a single-sheet XLSX workbook.
func WriteTableXLSX(t *table.Table, w io.Writer) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "writer: add sheet")
	}

	appendRow(sheet, t.Columns)
	for _, row := range t.Rows {
		appendRow(sheet, row)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "writer: write xlsx")
	}
	return nil
}

func appendRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

// WriteOutputs writes the three result tables into dir using the given
// format and returns the written paths in cleaned, review, removed order.
// The review file goes through the typed codec when the format is CSV, so
// its similarity column stays numeric.
func WriteOutputs(dir string, format Format, res *dedup.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "writer: create output dir %s", dir)
	}

	paths := make([]string, 0, 3)
	outputs := []struct {
		stem  string
		write func(io.Writer) error
	}{
		{CleanedName, func(w io.Writer) error { return writeTable(res.Cleaned, format, w) }},
		{ReviewName, func(w io.Writer) error { return writeReview(res, format, w) }},
		{RemovedName, func(w io.Writer) error { return writeTable(res.Removed, format, w) }},
	}

	for _, out := range outputs {
		path := filepath.Join(dir, out.stem+format.Ext())
		if err := writeFile(path, out.write); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	zap.L().Info("outputs written",
		zap.String("dir", dir),
		zap.String("format", string(format)),
		zap.Strings("files", paths),
	)
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "writer: create %s", path)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "writer: close %s", path)
	}
	return nil
}

func writeTable(t *table.Table, format Format, w io.Writer) error {
	if format == FormatXLSX {
		return WriteTableXLSX(t, w)
	}
	return WriteTableCSV(t, w)
}

func writeReview(res *dedup.Result, format Format, w io.Writer) error {
	if format == FormatXLSX {
		return WriteTableXLSX(res.Review, w)
	}
	return EncodeReviewCSV(res.ReviewRows, w)
}
