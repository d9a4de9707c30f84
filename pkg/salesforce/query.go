package salesforce

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Account represents a Salesforce Account record.
type Account struct {
	ID      string `json:"Id" salesforce:"Id"`
	Name    string `json:"Name" salesforce:"Name"`
	Website string `json:"Website" salesforce:"Website"`
	Type    string `json:"Type" salesforce:"Type"`
}

// AccountNames returns the names of Accounts matching the optional SOQL
// condition, sorted by name with blanks dropped. The condition comes from
// operator config and is spliced in verbatim; callers building one from
// untrusted input must escape it themselves.
func AccountNames(ctx context.Context, c Client, where string) ([]string, error) {
	soql := "SELECT Name FROM Account WHERE Name != null"
	if where != "" {
		soql += " AND (" + where + ")"
	}
	soql += " ORDER BY Name"

	var accounts []Account
	if err := c.Query(ctx, soql, &accounts); err != nil {
		return nil, eris.Wrap(err, "sf: list account names")
	}

	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if name := strings.TrimSpace(a.Name); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// AccountNamesByType returns the names of Accounts whose Type picklist
// matches accountType exactly, e.g. "Customer" or "Client".
func AccountNamesByType(ctx context.Context, c Client, accountType string) ([]string, error) {
	return AccountNames(ctx, c, fmt.Sprintf("Type = '%s'", escapeSoql(accountType)))
}

// escapeSoql escapes single quotes in SOQL string literals to prevent injection.
func escapeSoql(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}
