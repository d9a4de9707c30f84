package roster

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sfpkg "github.com/sells-group/leadclean/pkg/salesforce"
)

// fakeSFClient records the SOQL it is asked to run and returns canned names.
type fakeSFClient struct {
	soql  string
	names []string
	err   error
}

func (f *fakeSFClient) Query(_ context.Context, soql string, out any) error {
	f.soql = soql
	if f.err != nil {
		return f.err
	}
	accounts := out.(*[]sfpkg.Account)
	for _, n := range f.names {
		*accounts = append(*accounts, sfpkg.Account{Name: n})
	}
	return nil
}

func TestSalesforceSource_Names(t *testing.T) {
	t.Run("no filter lists every named account", func(t *testing.T) {
		fake := &fakeSFClient{names: []string{"Acme Corp", "Beta LLC"}}
		src := NewSalesforceSource(fake, SalesforceConfig{})

		names, err := src.Names(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme Corp", "Beta LLC"}, names)
		assert.Contains(t, fake.soql, "WHERE Name != null")
		assert.NotContains(t, fake.soql, "AND (")
	})

	t.Run("account type filters the picklist", func(t *testing.T) {
		fake := &fakeSFClient{names: []string{"Acme Corp"}}
		src := NewSalesforceSource(fake, SalesforceConfig{AccountType: "Customer"})

		_, err := src.Names(context.Background())
		require.NoError(t, err)
		assert.Contains(t, fake.soql, "Type = 'Customer'")
	})

	t.Run("raw where clause wins over account type", func(t *testing.T) {
		fake := &fakeSFClient{}
		src := NewSalesforceSource(fake, SalesforceConfig{
			AccountType: "Customer",
			Where:       "Industry = 'Technology'",
		})

		_, err := src.Names(context.Background())
		require.NoError(t, err)
		assert.Contains(t, fake.soql, "Industry = 'Technology'")
		assert.NotContains(t, fake.soql, "Type = 'Customer'")
	})

	t.Run("query errors propagate", func(t *testing.T) {
		fake := &fakeSFClient{err: errors.New("session expired")}
		src := NewSalesforceSource(fake, SalesforceConfig{})

		_, err := src.Names(context.Background())
		assert.Error(t, err)
	})
}

func TestNewSalesforce_Validation(t *testing.T) {
	t.Run("requires client ID", func(t *testing.T) {
		_, err := NewSalesforce(SalesforceConfig{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "client ID is required")
	})

	t.Run("requires readable key file", func(t *testing.T) {
		_, err := NewSalesforce(SalesforceConfig{
			ClientID: "3MVG9...",
			Username: "ops@sells.group",
			KeyPath:  filepath.Join(t.TempDir(), "missing.pem"),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "read salesforce JWT private key")
	})
}

func TestSalesforceSource_Close(t *testing.T) {
	src := NewSalesforceSource(&fakeSFClient{}, SalesforceConfig{})
	assert.NoError(t, src.Close())
}
