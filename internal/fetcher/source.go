package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/table"
)

// Options bundles the per-format and per-transport settings for loading a
// table from one source.
type Options struct {
	CSV  CSVOptions
	XLSX XLSXOptions
	HTTP HTTPOptions
	FTP  FTPOptions
}

// ReadTableSource loads a spreadsheet table from a local path, an http(s)://
// URL, or an ftp:// URL. The format is picked by file extension: .xlsx and
// .xlsm parse as XLSX, everything else as CSV.
func ReadTableSource(ctx context.Context, source string, opts Options) (*table.Table, error) {
	scheme := sourceScheme(source)

	zap.L().Debug("loading table",
		zap.String("source", source),
		zap.String("scheme", scheme),
	)

	if scheme == "" {
		if isXLSX(source) {
			return ReadXLSX(source, opts.XLSX)
		}
		f, err := os.Open(source)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", source)
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(f, opts.CSV)
	}

	var fetcher Fetcher
	switch scheme {
	case "http", "https":
		fetcher = NewHTTPFetcher(opts.HTTP)
	case "ftp":
		fetcher = NewFTPFetcher(opts.FTP)
	default:
		return nil, eris.Errorf("fetcher: unsupported scheme %q in %s", scheme, source)
	}

	body, err := fetcher.Download(ctx, source)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", source)
	}
	return ParseTable(data, source, opts)
}

// ParseTable parses in-memory spreadsheet data, picking the format from the
// name's extension the same way ReadTableSource does.
func ParseTable(data []byte, name string, opts Options) (*table.Table, error) {
	if isXLSX(name) {
		return ParseXLSX(data, opts.XLSX)
	}
	return ReadCSV(bytes.NewReader(data), opts.CSV)
}

func sourceScheme(source string) string {
	u, err := url.Parse(source)
	if err != nil || u.Scheme == "" {
		return ""
	}
	// A Windows drive letter parses as a one-letter scheme; treat it as a path.
	if len(u.Scheme) == 1 {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

func isXLSX(name string) bool {
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}
