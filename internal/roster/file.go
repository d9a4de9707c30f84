package roster

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadclean/internal/fetcher"
)

// FileConfig points a roster at one column of a spreadsheet. Source accepts
// anything fetcher does: a local path or an http(s):// or ftp:// URL, in CSV
// or XLSX form.
type FileConfig struct {
	Source string `yaml:"source" mapstructure:"source"`
	Column string `yaml:"column" mapstructure:"column"`
	Sheet  string `yaml:"sheet" mapstructure:"sheet"`
}

// FileSource reads client names from a spreadsheet column.
type FileSource struct {
	cfg FileConfig
}

// NewFile creates a spreadsheet-backed roster source.
func NewFile(cfg FileConfig) *FileSource {
	return &FileSource{cfg: cfg}
}

func (s *FileSource) Names(ctx context.Context) ([]string, error) {
	var opts fetcher.Options
	opts.XLSX.SheetName = s.cfg.Sheet

	tbl, err := fetcher.ReadTableSource(ctx, s.cfg.Source, opts)
	if err != nil {
		return nil, eris.Wrapf(err, "roster: read %s", s.cfg.Source)
	}

	vals, ok := tbl.Values(s.cfg.Column)
	if !ok {
		return nil, eris.Errorf("roster: %s has no column %q", s.cfg.Source, s.cfg.Column)
	}

	names := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			names = append(names, v)
		}
	}
	return names, nil
}

func (s *FileSource) Close() error { return nil }
