// Package match scores normalized company-name keys and finds the client
// keys a lead probably duplicates. Scoring is token-order-insensitive: keys
// are compared as sorted-token strings, so "acme corp" and "corp acme" are
// a perfect match.
package match

import (
	"context"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/agnivade/levenshtein"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Candidate pairs a remainder lead key with a client key it may duplicate.
type Candidate struct {
	LeadKey   string
	ClientKey string
	Score     float64
}

// Options configures the candidate search.
type Options struct {
	// Threshold is the acceptance-band floor: a candidate is kept iff
	// Threshold <= score < 100. Scores of exactly 100 mean identical token
	// sets, which exact matching has already consumed, so they are dropped
	// here rather than reclassified.
	Threshold float64

	// MaxCandidates caps candidates kept per lead key, best-scoring first.
	// Defaults to 3. The cap applies before the acceptance band, so a
	// perfect score still occupies a slot.
	MaxCandidates int

	// Workers bounds the parallel per-lead searches. Defaults to
	// GOMAXPROCS.
	Workers int
}

// Matcher runs banded top-N similarity searches.
type Matcher struct {
	opts Options
}

// New creates a Matcher, applying option defaults.
func New(opts Options) *Matcher {
	if opts.MaxCandidates <= 0 {
		opts.MaxCandidates = 3
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Matcher{opts: opts}
}

var jaroWinkler = metrics.NewJaroWinkler()

// TokenSort rearranges a key's whitespace tokens into sorted order:
// "corp acme" -> "acme corp".
func TokenSort(key string) string {
	tokens := strings.Fields(key)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Score rates the similarity of two normalized keys on a 0-100 scale,
// insensitive to token order. The sorted-token strings are compared with a
// Levenshtein edit ratio and with Jaro-Winkler, and the better of the two
// wins: the edit ratio anchors the score for plain misspellings while
// Jaro-Winkler carries abbreviation-style variants ("acme corporation" vs
// "acme corp") that a pure edit ratio undervalues. Identical token sets
// score exactly 100; nothing else does.
func Score(a, b string) float64 {
	return scoreSorted(TokenSort(a), TokenSort(b))
}

func scoreSorted(a, b string) float64 {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return max(editRatio(a, b), strutil.Similarity(a, b, jaroWinkler)*100)
}

// editRatio is the normalized edit distance scaled to 0-100:
// 100 * (1 - distance/longest).
func editRatio(a, b string) float64 {
	longest := max(len(a), len(b))
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// Candidates scores every lead key against every distinct client key and
// returns, per lead key, the top MaxCandidates inside the acceptance band.
// Output order is deterministic: lead keys in input order, candidates by
// descending score with ties resolved to the lexically smaller client key,
// regardless of worker count.
//
// The search costs O(leads x clients) scored comparisons. That is fine at
// the intended scale of thousands of names a side, and it is the documented
// limit of this design - there is no index to hide behind.
func (m *Matcher) Candidates(ctx context.Context, leadKeys, clientKeys []string) ([]Candidate, error) {
	if len(leadKeys) == 0 || len(clientKeys) == 0 {
		return nil, nil
	}

	// Scanning clients in lexical order makes the tie-break fall out of the
	// insertion order in searchOne.
	clients := make([]string, len(clientKeys))
	copy(clients, clientKeys)
	sort.Strings(clients)

	sorted := make([]string, len(clients))
	for i, key := range clients {
		sorted[i] = TokenSort(key)
	}

	perLead := make([][]Candidate, len(leadKeys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i, lead := range leadKeys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "match: candidate search cancelled")
			}
			perLead[i] = m.searchOne(lead, clients, sorted)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Candidate
	for _, cands := range perLead {
		out = append(out, cands...)
	}
	return out, nil
}

// searchOne scans all clients for one lead key, keeping the top
// MaxCandidates by score and then applying the acceptance band. Keeping
// before banding mirrors the two-step shape of a limit-N extract: a
// perfect score claims a slot and is then discarded as already handled by
// exact matching.
func (m *Matcher) searchOne(lead string, clients, sorted []string) []Candidate {
	leadSorted := TokenSort(lead)

	top := make([]Candidate, 0, m.opts.MaxCandidates)
	for j := range clients {
		score := scoreSorted(leadSorted, sorted[j])
		if score <= 0 {
			continue
		}

		// Insertion position: strictly-better scores move ahead; equal
		// scores keep the earlier (lexically smaller) client first.
		pos := len(top)
		for pos > 0 && top[pos-1].Score < score {
			pos--
		}
		if pos >= m.opts.MaxCandidates {
			continue
		}

		if len(top) < m.opts.MaxCandidates {
			top = append(top, Candidate{})
		}
		copy(top[pos+1:], top[pos:])
		top[pos] = Candidate{LeadKey: lead, ClientKey: clients[j], Score: score}
	}

	var flagged []Candidate
	for _, c := range top {
		if c.Score >= m.opts.Threshold && c.Score < 100 {
			flagged = append(flagged, c)
		}
	}
	return flagged
}
