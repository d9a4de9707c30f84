package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/writer"
	"github.com/sells-group/leadclean/pkg/notion"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a review spreadsheet to the Notion board",
	Long: `Reads a potential_matches_to_review.csv produced by clean and
creates one page per flagged lead on the configured Notion database.
Leads already on the board are refreshed in place without touching the
review status the team set.`,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().String("file", "", "review CSV to push (required)")
	pushCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(pushCmd)
}

func runPush(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("push"); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("file")
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "push: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	rows, err := writer.DecodeReviewCSV(f)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("Nothing to push.")
		return nil
	}

	entries := make([]notion.ReviewEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, notion.ReviewEntry{
			LeadKey:       r.LeadKey,
			LeadName:      r.LeadName,
			MatchedClient: r.MatchedClient,
			Similarity:    r.Similarity,
		})
	}

	log := zap.L().With(zap.String("command", "push"))
	log.Info("pushing review rows",
		zap.String("file", path),
		zap.Int("rows", len(entries)),
	)

	client := notion.NewClient(cfg.Notion.Token, notion.WithRateLimit(cfg.Notion.RateLimit))
	created, updated, err := notion.PushReview(ctx, client, cfg.Notion.ReviewDB, entries)
	if err != nil {
		return err
	}

	fmt.Printf("Pushed %d flagged leads: %d created, %d refreshed\n", len(entries), created, updated)
	return nil
}
