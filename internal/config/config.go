// Package config loads application configuration from config.yaml and
// LEADCLEAN_* environment variables, and initializes the global logger.
package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/roster"
)

// Config is the top-level application configuration.
type Config struct {
	Input  InputConfig   `yaml:"input" mapstructure:"input"`
	Match  MatchConfig   `yaml:"match" mapstructure:"match"`
	Output OutputConfig  `yaml:"output" mapstructure:"output"`
	Roster roster.Config `yaml:"roster" mapstructure:"roster"`
	Notion NotionConfig  `yaml:"notion" mapstructure:"notion"`
	Server ServerConfig  `yaml:"server" mapstructure:"server"`
	Log    LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputConfig names the default lead and client sources. Either can be a
// local path, an http(s):// URL, or an ftp:// URL, and either can be
// overridden per run with a flag.
type InputConfig struct {
	Leads     string `yaml:"leads" mapstructure:"leads"`
	Clients   string `yaml:"clients" mapstructure:"clients"`
	Sheet     string `yaml:"sheet" mapstructure:"sheet"`
	SkipRows  int    `yaml:"skip_rows" mapstructure:"skip_rows"`
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
}

// FetchOptions converts the section into fetcher options. Only the first
// rune of Delimiter is used.
func (i InputConfig) FetchOptions() fetcher.Options {
	var opts fetcher.Options
	opts.XLSX.SheetName = i.Sheet
	opts.XLSX.SkipRows = i.SkipRows
	opts.CSV.SkipRows = i.SkipRows
	for _, r := range i.Delimiter {
		opts.CSV.Delimiter = r
		break
	}
	return opts
}

// MatchConfig tunes the dedup run. Threshold has no default on purpose:
// every deployment must choose its own acceptance band.
type MatchConfig struct {
	LeadColumn     string  `yaml:"lead_column" mapstructure:"lead_column"`
	ClientColumn   string  `yaml:"client_column" mapstructure:"client_column"`
	Threshold      float64 `yaml:"threshold" mapstructure:"threshold"`
	MaxCandidates  int     `yaml:"max_candidates" mapstructure:"max_candidates"`
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	ExcludeFlagged bool    `yaml:"exclude_flagged" mapstructure:"exclude_flagged"`
	Profiles       string  `yaml:"profiles" mapstructure:"profiles"`
}

// Options converts the section into dedup options.
func (m MatchConfig) Options() dedup.Options {
	return dedup.Options{
		LeadColumn:     m.LeadColumn,
		ClientColumn:   m.ClientColumn,
		Threshold:      m.Threshold,
		MaxCandidates:  m.MaxCandidates,
		ExcludeFlagged: m.ExcludeFlagged,
		Workers:        m.Workers,
	}
}

// OutputConfig controls where and how result files are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// NotionConfig configures the review-board push.
type NotionConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	ReviewDB  string  `yaml:"review_db" mapstructure:"review_db"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from config.yaml in the working directory
// (optional) and from LEADCLEAN_* environment variables. Env wins over
// file, file wins over defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("LEADCLEAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key gets a default so AutomaticEnv can bind it. match.threshold
	// registers as zero, which Validate treats as unset.
	v.SetDefault("input.leads", "")
	v.SetDefault("input.clients", "")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.skip_rows", 0)
	v.SetDefault("input.delimiter", "")

	v.SetDefault("match.lead_column", "companyName")
	v.SetDefault("match.client_column", "companyName")
	v.SetDefault("match.threshold", 0.0)
	v.SetDefault("match.max_candidates", 3)
	v.SetDefault("match.workers", 0)
	v.SetDefault("match.exclude_flagged", true)
	v.SetDefault("match.profiles", "")

	v.SetDefault("output.dir", "out")
	v.SetDefault("output.format", "csv")

	v.SetDefault("roster.kind", "")
	v.SetDefault("roster.file.source", "")
	v.SetDefault("roster.file.column", "")
	v.SetDefault("roster.file.sheet", "")
	v.SetDefault("roster.postgres.url", "")
	v.SetDefault("roster.postgres.table", "")
	v.SetDefault("roster.postgres.column", "")
	v.SetDefault("roster.sqlite.path", "")
	v.SetDefault("roster.sqlite.table", "")
	v.SetDefault("roster.sqlite.column", "")
	v.SetDefault("roster.salesforce.client_id", "")
	v.SetDefault("roster.salesforce.username", "")
	v.SetDefault("roster.salesforce.key_path", "")
	v.SetDefault("roster.salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("roster.salesforce.account_type", "")
	v.SetDefault("roster.salesforce.where", "")
	v.SetDefault("roster.salesforce.rate_limit", 0.0)

	v.SetDefault("notion.token", "")
	v.SetDefault("notion.review_db", "")
	v.SetDefault("notion.rate_limit", 3.0)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &cfg, nil
}

// Validate checks the sections the given mode relies on. Modes are "clean"
// (one-shot run), "serve" (HTTP server), and "push" (review-board export).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "clean", "serve":
		errs = append(errs, c.matchErrors()...)
		switch strings.ToLower(strings.TrimSpace(c.Output.Format)) {
		case "", "csv", "xlsx":
		default:
			errs = append(errs, fmt.Sprintf("output.format must be csv or xlsx, got %q", c.Output.Format))
		}
		if mode == "serve" && c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "push":
		if strings.TrimSpace(c.Notion.Token) == "" {
			errs = append(errs, "notion.token is required")
		}
		if strings.TrimSpace(c.Notion.ReviewDB) == "" {
			errs = append(errs, "notion.review_db is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) matchErrors() []string {
	var errs []string
	if strings.TrimSpace(c.Match.LeadColumn) == "" {
		errs = append(errs, "match.lead_column is required")
	}
	if strings.TrimSpace(c.Match.ClientColumn) == "" {
		errs = append(errs, "match.client_column is required")
	}
	switch {
	case c.Match.Threshold == 0:
		errs = append(errs, "match.threshold is required, there is no default (set it in config.yaml, LEADCLEAN_MATCH_THRESHOLD, or --threshold)")
	case c.Match.Threshold < 0 || c.Match.Threshold >= 100:
		errs = append(errs, fmt.Sprintf("match.threshold must be inside (0, 100), got %v", c.Match.Threshold))
	}
	if c.Match.MaxCandidates < 1 {
		errs = append(errs, "match.max_candidates must be >= 1")
	}
	if c.Match.Workers < 0 {
		errs = append(errs, "match.workers must be >= 0")
	}
	return errs
}

// InitLogger configures the global zap logger from the log section.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
