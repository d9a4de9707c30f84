// Package dedup runs the two-tier lead deduplication pipeline: normalize
// both tables, partition leads into exact roster hits and remainder, run
// the similarity search over the remainder, and assemble the three output
// tables. The whole run is a pure in-memory batch; nothing is persisted.
package dedup

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/match"
	"github.com/sells-group/leadclean/internal/normalize"
	"github.com/sells-group/leadclean/internal/table"
)

// ErrSchema marks a fatal input problem: a configured identity column is
// absent from its table. The run aborts before any matching. Check with
// eris.Is.
var ErrSchema = eris.New("identity column missing")

// Review table columns. Lead Key carries the normalized key so callers can
// re-join flagged duplicates row-by-row; the name columns carry the
// first-occurrence originals for human readers.
const (
	ColLeadKey       = "Lead Key"
	ColLeadName      = "Lead Name"
	ColMatchedClient = "Matched Client"
	ColSimilarity    = "Similarity"
)

// Options configures one dedup run.
type Options struct {
	// LeadColumn and ClientColumn name the identity columns. Configuration,
	// never inferred.
	LeadColumn   string
	ClientColumn string

	// Threshold is the acceptance-band floor, required with no default;
	// must lie strictly inside (0, 100).
	Threshold float64

	// MaxCandidates caps flagged candidates per lead key (default 3).
	MaxCandidates int

	// ExcludeFlagged drops fuzzy-flagged leads from the cleaned output.
	// When false they stay in cleaned and are merely flagged for review.
	ExcludeFlagged bool

	// Workers bounds the parallel similarity searches (default GOMAXPROCS).
	Workers int
}

func (o Options) validate() error {
	if strings.TrimSpace(o.LeadColumn) == "" {
		return eris.New("dedup: lead identity column must be configured")
	}
	if strings.TrimSpace(o.ClientColumn) == "" {
		return eris.New("dedup: client identity column must be configured")
	}
	if o.Threshold <= 0 || o.Threshold >= 100 {
		return eris.Errorf("dedup: similarity threshold must be inside (0, 100), got %v", o.Threshold)
	}
	return nil
}

// ReviewRow is one flagged candidate in exportable form. The csv tags drive
// the typed review-file codec; similarity is rounded to one decimal so the
// CSV, XLSX, and JSON renderings of a run agree.
type ReviewRow struct {
	LeadKey       string  `csv:"Lead Key" json:"leadKey"`
	LeadName      string  `csv:"Lead Name" json:"leadName"`
	MatchedClient string  `csv:"Matched Client" json:"matchedClient"`
	Similarity    float64 `csv:"Similarity" json:"similarity"`
}

// Result holds the three output tables, the candidates behind the review
// table, and the scalar counts.
type Result struct {
	Cleaned *table.Table
	Review  *table.Table
	Removed *table.Table

	Candidates []match.Candidate
	ReviewRows []ReviewRow

	LeadCount    int
	CleanedCount int
	ReviewCount  int
	RemovedCount int
}

// Run executes one deduplication pass. Duplicate lead rows sharing a key are
// preserved in the cleaned and removed outputs; the review table has one row
// per in-band candidate, keyed by distinct lead key. An empty leads table is
// a valid run with three empty outputs.
func Run(ctx context.Context, leads, clients *table.Table, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	leadIdx, ok := leads.ColumnIndex(opts.LeadColumn)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "dedup: leads table has no column %q", opts.LeadColumn)
	}
	clientIdx, ok := clients.ColumnIndex(opts.ClientColumn)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "dedup: clients table has no column %q", opts.ClientColumn)
	}

	// ClientKeySet: distinct normalized keys mapped to the first original
	// spelling, immutable for the rest of the run.
	clientKeys := make(map[string]string, clients.Len())
	for _, row := range clients.Rows {
		key := normalize.Key(row[clientIdx])
		if _, seen := clientKeys[key]; !seen {
			clientKeys[key] = strings.TrimSpace(row[clientIdx])
		}
	}

	// Exact partition. Remainder keys are collected distinct, in first
	// appearance order, so downstream ordering is reproducible. Empty keys
	// (blank or unusable names) never enter the similarity search; unless
	// the roster itself contains a blank name they classify Distinct.
	removed := table.New(leads.Columns...)
	keys := make([]string, len(leads.Rows))
	var remainder []string
	leadName := make(map[string]string)
	for i, row := range leads.Rows {
		key := normalize.Key(row[leadIdx])
		keys[i] = key
		if _, exact := clientKeys[key]; exact {
			removed.Append(row)
			continue
		}
		if key == "" {
			continue
		}
		if _, seen := leadName[key]; !seen {
			remainder = append(remainder, key)
			leadName[key] = strings.TrimSpace(row[leadIdx])
		}
	}

	searchSpace := make([]string, 0, len(clientKeys))
	for key := range clientKeys {
		if key != "" {
			searchSpace = append(searchSpace, key)
		}
	}

	matcher := match.New(match.Options{
		Threshold:     opts.Threshold,
		MaxCandidates: opts.MaxCandidates,
		Workers:       opts.Workers,
	})
	candidates, err := matcher.Candidates(ctx, remainder, searchSpace)
	if err != nil {
		return nil, err
	}

	flagged := make(map[string]struct{}, len(candidates))
	review := table.New(ColLeadKey, ColLeadName, ColMatchedClient, ColSimilarity)
	reviewRows := make([]ReviewRow, 0, len(candidates))
	for _, c := range candidates {
		flagged[c.LeadKey] = struct{}{}
		r := ReviewRow{
			LeadKey:       c.LeadKey,
			LeadName:      leadName[c.LeadKey],
			MatchedClient: clientKeys[c.ClientKey],
			Similarity:    math.Round(c.Score*10) / 10,
		}
		reviewRows = append(reviewRows, r)
		review.Append([]string{
			r.LeadKey,
			r.LeadName,
			r.MatchedClient,
			strconv.FormatFloat(r.Similarity, 'f', 1, 64),
		})
	}

	cleaned := table.New(leads.Columns...)
	for i, row := range leads.Rows {
		if _, exact := clientKeys[keys[i]]; exact {
			continue
		}
		if _, hit := flagged[keys[i]]; hit && opts.ExcludeFlagged {
			continue
		}
		cleaned.Append(row)
	}

	zap.L().Info("dedup run complete",
		zap.Int("leads", leads.Len()),
		zap.Int("client_keys", len(clientKeys)),
		zap.Int("distinct_remainder", len(remainder)),
		zap.Int("cleaned", cleaned.Len()),
		zap.Int("review", review.Len()),
		zap.Int("removed", removed.Len()),
	)

	return &Result{
		Cleaned:      cleaned,
		Review:       review,
		Removed:      removed,
		Candidates:   candidates,
		ReviewRows:   reviewRows,
		LeadCount:    leads.Len(),
		CleanedCount: cleaned.Len(),
		ReviewCount:  review.Len(),
		RemovedCount: removed.Len(),
	}, nil
}
