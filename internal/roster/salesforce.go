package roster

import (
	"context"
	"os"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	sfpkg "github.com/sells-group/leadclean/pkg/salesforce"
)

// SalesforceConfig holds JWT auth settings plus the Account filter that
// defines who counts as a client. Where is a raw SOQL condition and wins
// over AccountType when both are set; with neither, every named Account is
// on the roster.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`

	AccountType string  `yaml:"account_type" mapstructure:"account_type"`
	Where       string  `yaml:"where" mapstructure:"where"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// SalesforceSource reads client names from Salesforce Accounts.
type SalesforceSource struct {
	client      sfpkg.Client
	accountType string
	where       string
}

// NewSalesforce authenticates against Salesforce with the JWT bearer flow.
func NewSalesforce(cfg SalesforceConfig) (*SalesforceSource, error) {
	if cfg.ClientID == "" {
		return nil, eris.New("roster: salesforce client ID is required")
	}

	pemData, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "roster: read salesforce JWT private key")
	}

	sf, err := gosf.Init(gosf.Creds{
		Domain:         cfg.LoginURL,
		Username:       cfg.Username,
		ConsumerKey:    cfg.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "roster: init salesforce")
	}

	var opts []sfpkg.ClientOption
	if cfg.RateLimit > 0 {
		opts = append(opts, sfpkg.WithRateLimit(cfg.RateLimit))
	}
	return NewSalesforceSource(sfpkg.NewClient(sf, opts...), cfg), nil
}

// NewSalesforceSource wraps an already-authenticated client.
func NewSalesforceSource(c sfpkg.Client, cfg SalesforceConfig) *SalesforceSource {
	return &SalesforceSource{
		client:      c,
		accountType: cfg.AccountType,
		where:       cfg.Where,
	}
}

func (s *SalesforceSource) Names(ctx context.Context) ([]string, error) {
	if s.where == "" && s.accountType != "" {
		return sfpkg.AccountNamesByType(ctx, s.client, s.accountType)
	}
	return sfpkg.AccountNames(ctx, s.client, s.where)
}

func (s *SalesforceSource) Close() error { return nil }
