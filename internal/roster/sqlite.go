package roster

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteConfig points a roster at one column of a SQLite table.
type SQLiteConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Table  string `yaml:"table" mapstructure:"table"`
	Column string `yaml:"column" mapstructure:"column"`
}

// SQLiteSource reads client names from a SQLite database.
type SQLiteSource struct {
	db     *sql.DB
	table  string
	column string
}

// NewSQLite opens the SQLite database at cfg.Path.
func NewSQLite(cfg SQLiteConfig) (*SQLiteSource, error) {
	if cfg.Table == "" || cfg.Column == "" {
		return nil, eris.New("roster: sqlite source needs a table and a column")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, eris.Wrap(err, "roster: open sqlite")
	}
	// The roster only reads; busy_timeout keeps us from failing fast when
	// another process holds the write lock.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "roster: exec PRAGMA busy_timeout")
	}
	return &SQLiteSource{db: db, table: cfg.Table, column: cfg.Column}, nil
}

func (s *SQLiteSource) Names(ctx context.Context) ([]string, error) {
	col := sqliteIdent(s.column)
	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL AND TRIM(%s) <> '' ORDER BY 1`,
		col, sqliteIdent(s.table), col, col,
	)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "roster: query client names")
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "roster: scan client name")
		}
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "roster: read client names")
	}
	return names, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// sqliteIdent double-quotes an identifier for SQLite.
func sqliteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
