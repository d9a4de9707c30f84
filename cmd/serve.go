package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/roster"
	"github.com/sells-group/leadclean/internal/server"
	"github.com/sells-group/leadclean/internal/table"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP dedup API",
	Long: `Serves POST /v1/clean: upload a leads spreadsheet, get back the
cleaned result as JSON or a zip of the three output files. When a roster
source is configured its client list is loaded once at startup; otherwise
every request must upload its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		var clients *table.Table
		if cfg.Roster.Kind != "" {
			src, err := roster.FromConfig(ctx, cfg.Roster)
			if err != nil {
				return err
			}
			names, err := src.Names(ctx)
			src.Close() //nolint:errcheck
			if err != nil {
				return err
			}
			clients = table.FromColumn(cfg.Match.ClientColumn, names)
			zap.L().Info("roster preloaded",
				zap.String("kind", cfg.Roster.Kind),
				zap.Int("clients", clients.Len()),
			)
		}

		api := server.New(cfg, clients)
		srv := &http.Server{
			Addr:    api.Addr(),
			Handler: api.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
