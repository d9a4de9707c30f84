package writer

import (
	"encoding/csv"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/dedup"
)

// EncodeReviewCSV writes review rows as CSV through the typed codec, so the
// similarity column round-trips as a number.
func EncodeReviewCSV(rows []dedup.ReviewRow, w io.Writer) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	// An empty review still gets its header so downstream tooling can rely
	// on the file shape.
	if len(rows) == 0 {
		if err := enc.EncodeHeader(dedup.ReviewRow{}); err != nil {
			return eris.Wrap(err, "writer: encode review header")
		}
	}
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "writer: encode review row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "writer: flush review csv")
	}
	return nil
}

// DecodeReviewCSV reads a review CSV, typically after a human has pruned
// it, back into typed rows.
func DecodeReviewCSV(r io.Reader) ([]dedup.ReviewRow, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, eris.Wrap(err, "writer: read review header")
	}

	var rows []dedup.ReviewRow
	for {
		var row dedup.ReviewRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "writer: decode review row")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
