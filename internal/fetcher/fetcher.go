// Package fetcher loads lead and client tables from spreadsheet sources.
// CSV and XLSX are supported; a source may be a local path, an http(s)://
// URL, or an ftp:// URL.
package fetcher

import (
	"context"
	"io"
)

// Fetcher defines the interface for downloading remote spreadsheet data.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to the given path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}
