package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/roster"
	"github.com/sells-group/leadclean/internal/table"
	"github.com/sells-group/leadclean/internal/writer"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Run one dedup pass over a leads spreadsheet",
	Long: `Removes leads that exactly match an existing client after name
normalization, flags near matches for human review, and writes three
spreadsheets: cleaned leads, potential matches to review, and exact
matches removed.

The client list comes from --clients (path or URL), or from the roster
source configured under roster.* (file, postgres, sqlite, salesforce).

Examples:
  # Leads from a local file, clients from another
  clean --leads leads_sn.xlsx --clients client_list.xlsx

  # Pull the client roster from the configured source
  clean --leads leads.csv

  # Tighten the acceptance band for one run
  clean --leads leads.csv --threshold 85

  # Apply a named preset from the profiles file
  clean --leads leads.csv --profile strict

  # Keep flagged leads in the cleaned output
  clean --leads leads.csv --exclude-flagged=false`,
	RunE: runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.String("leads", "", "leads spreadsheet: path, http(s):// or ftp:// URL (overrides input.leads)")
	f.String("clients", "", "client list spreadsheet (overrides input.clients and the roster)")
	f.Float64("threshold", 0, "similarity acceptance-band floor, exclusive 0-100 (overrides match.threshold)")
	f.String("profile", "", "named match profile (built-in or from match.profiles)")
	f.String("lead-column", "", "identity column in the leads table (overrides match.lead_column)")
	f.String("client-column", "", "identity column in the client table (overrides match.client_column)")
	f.Bool("exclude-flagged", true, "drop flagged leads from the cleaned output (overrides match.exclude_flagged)")
	f.Int("max-candidates", 0, "flagged candidates kept per lead (overrides match.max_candidates)")
	f.Int("workers", 0, "parallel similarity workers, 0 = all CPUs (overrides match.workers)")
	f.String("output", "", "output directory (overrides output.dir)")
	f.String("format", "", "output format: csv or xlsx (overrides output.format)")
	f.String("sheet", "", "XLSX sheet name to read (overrides input.sheet)")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := applyCleanOverrides(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate("clean"); err != nil {
		return err
	}
	if cfg.Input.Leads == "" {
		return eris.New("clean: no leads source (set --leads or input.leads)")
	}

	format, err := writer.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := zap.L().With(
		zap.String("command", "clean"),
		zap.String("run_id", runID),
	)

	leads, err := fetcher.ReadTableSource(ctx, cfg.Input.Leads, cfg.Input.FetchOptions())
	if err != nil {
		return err
	}
	log.Info("leads loaded",
		zap.String("source", cfg.Input.Leads),
		zap.Int("rows", leads.Len()),
	)

	clients, err := loadClients(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info("clients loaded", zap.Int("rows", clients.Len()))

	res, err := dedup.Run(ctx, leads, clients, cfg.Match.Options())
	if err != nil {
		return err
	}

	paths, err := writer.WriteOutputs(cfg.Output.Dir, format, res)
	if err != nil {
		return err
	}

	fmt.Printf("Leads processed:       %d\n", res.LeadCount)
	fmt.Printf("Exact matches removed: %d\n", res.RemovedCount)
	fmt.Printf("Flagged for review:    %d\n", res.ReviewCount)
	fmt.Printf("Cleaned leads:         %d\n", res.CleanedCount)
	fmt.Println("\nOutput files:")
	for _, p := range paths {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

// applyCleanOverrides layers CLI flags over the loaded config. The profile
// applies before individual flags so an explicit flag wins over its preset.
func applyCleanOverrides(cmd *cobra.Command, c *config.Config) error {
	if v, _ := cmd.Flags().GetString("leads"); v != "" {
		c.Input.Leads = v
	}
	if v, _ := cmd.Flags().GetString("clients"); v != "" {
		c.Input.Clients = v
	}
	if v, _ := cmd.Flags().GetString("sheet"); v != "" {
		c.Input.Sheet = v
	}

	if v, _ := cmd.Flags().GetString("profile"); v != "" {
		p, err := config.ResolveProfile(c.Match.Profiles, v)
		if err != nil {
			return err
		}
		p.Apply(&c.Match)
	}
	if v, _ := cmd.Flags().GetFloat64("threshold"); v > 0 {
		c.Match.Threshold = v
	}
	if v, _ := cmd.Flags().GetString("lead-column"); v != "" {
		c.Match.LeadColumn = v
	}
	if v, _ := cmd.Flags().GetString("client-column"); v != "" {
		c.Match.ClientColumn = v
	}
	if cmd.Flags().Changed("exclude-flagged") {
		v, _ := cmd.Flags().GetBool("exclude-flagged")
		c.Match.ExcludeFlagged = v
	}
	if v, _ := cmd.Flags().GetInt("max-candidates"); v > 0 {
		c.Match.MaxCandidates = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		c.Match.Workers = v
	}

	if v, _ := cmd.Flags().GetString("output"); v != "" {
		c.Output.Dir = v
	}
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		c.Output.Format = v
	}
	return nil
}

// loadClients picks the client list: an explicit spreadsheet when one is
// given, otherwise the configured roster source.
func loadClients(ctx context.Context, c *config.Config) (*table.Table, error) {
	if src := c.Input.Clients; src != "" {
		return fetcher.ReadTableSource(ctx, src, c.Input.FetchOptions())
	}
	if c.Roster.Kind == "" {
		return nil, eris.New("clean: no client list (set --clients, input.clients, or roster.kind)")
	}

	src, err := roster.FromConfig(ctx, c.Roster)
	if err != nil {
		return nil, err
	}
	defer src.Close() //nolint:errcheck

	names, err := src.Names(ctx)
	if err != nil {
		return nil, err
	}
	return table.FromColumn(c.Match.ClientColumn, names), nil
}
