package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PostgresConfig points a roster at one column of a Postgres table. Table
// may be schema-qualified ("crm.clients").
type PostgresConfig struct {
	URL    string `yaml:"url" mapstructure:"url"`
	Table  string `yaml:"table" mapstructure:"table"`
	Column string `yaml:"column" mapstructure:"column"`
}

// pool defines the minimal pgxpool surface used by PostgresSource.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresSource reads client names from a Postgres table.
type PostgresSource struct {
	db     pool
	table  string
	column string
}

// NewPostgres connects to Postgres and verifies the connection.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresSource, error) {
	if cfg.Table == "" || cfg.Column == "" {
		return nil, eris.New("roster: postgres source needs a table and a column")
	}

	db, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, eris.Wrap(err, "roster: connect postgres")
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "roster: ping postgres")
	}
	return &PostgresSource{db: db, table: cfg.Table, column: cfg.Column}, nil
}

func (s *PostgresSource) Names(ctx context.Context) ([]string, error) {
	col := pgx.Identifier{s.column}.Sanitize()
	sql := fmt.Sprintf(
		`SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL AND TRIM(%s) <> '' ORDER BY 1`,
		col, pgIdent(s.table), col, col,
	)

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrap(err, "roster: query client names")
	}
	defer rows.Close()

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

func (s *PostgresSource) Close() error {
	s.db.Close()
	return nil
}

// pgIdent quotes a possibly schema-qualified identifier.
func pgIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
