// Package roster loads the client company list that incoming leads are
// deduplicated against. A roster can come from a spreadsheet, a Postgres or
// SQLite table, or Salesforce Accounts; every source reduces to a flat list
// of company names.
package roster

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
)

// Source produces the client company names for a dedup run.
type Source interface {
	// Names returns the client names in source order. Entries are trimmed
	// and blank entries dropped; the engine handles duplicate keys itself.
	Names(ctx context.Context) ([]string, error)

	// Close releases any connection held by the source.
	Close() error
}

// Config selects and configures a roster source.
type Config struct {
	Kind       string           `yaml:"kind" mapstructure:"kind"`
	File       FileConfig       `yaml:"file" mapstructure:"file"`
	Postgres   PostgresConfig   `yaml:"postgres" mapstructure:"postgres"`
	SQLite     SQLiteConfig     `yaml:"sqlite" mapstructure:"sqlite"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
}

// FromConfig builds the source named by cfg.Kind. Database-backed sources
// connect eagerly so a bad DSN fails here rather than mid-run.
func FromConfig(ctx context.Context, cfg Config) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "file":
		return NewFile(cfg.File), nil
	case "postgres":
		return NewPostgres(ctx, cfg.Postgres)
	case "sqlite":
		return NewSQLite(cfg.SQLite)
	case "salesforce":
		return NewSalesforce(cfg.Salesforce)
	default:
		return nil, eris.Errorf("roster: unknown source kind %q (want file, postgres, sqlite, or salesforce)", cfg.Kind)
	}
}
