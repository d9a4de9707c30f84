package writer

import (
	"archive/zip"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/dedup"
)

// WriteZip bundles the three result tables into one zip archive, each entry
// named like the standalone output files. This is how the HTTP API returns
// a whole run as a single download.
func WriteZip(w io.Writer, format Format, res *dedup.Result) error {
	zw := zip.NewWriter(w)

	entries := []struct {
		stem  string
		write func(io.Writer) error
	}{
		{CleanedName, func(ew io.Writer) error { return writeTable(res.Cleaned, format, ew) }},
		{ReviewName, func(ew io.Writer) error { return writeReview(res, format, ew) }},
		{RemovedName, func(ew io.Writer) error { return writeTable(res.Removed, format, ew) }},
	}

	for _, entry := range entries {
		name := entry.stem + format.Ext()
		ew, err := zw.Create(name)
		if err != nil {
			return eris.Wrapf(err, "writer: create zip entry %s", name)
		}
		if err := entry.write(ew); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "writer: close zip")
	}
	return nil
}
