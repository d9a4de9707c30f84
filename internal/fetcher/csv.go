package fetcher

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/table"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	SkipRows   int  // preamble rows above the header to discard
	LazyQuotes bool
	TrimSpace  bool
}

// ReadCSV parses CSV data into a table. The first row after SkipRows is the
// header. Rows may have varying widths; the table normalizes them against
// the header. A UTF-8 byte order mark on the first cell is stripped, since
// spreadsheet exports routinely carry one.
func ReadCSV(r io.Reader, opts CSVOptions) (*table.Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		if opts.TrimSpace {
			for i, field := range record {
				record[i] = strings.TrimSpace(field)
			}
		}
		rows = append(rows, record)
	}

	if opts.SkipRows > 0 {
		if opts.SkipRows >= len(rows) {
			rows = nil
		} else {
			rows = rows[opts.SkipRows:]
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\uFEFF")
	}

	return table.FromRows(rows), nil
}
