// Package server exposes the dedup pipeline over HTTP: upload a leads
// spreadsheet, get the cleaned result back as JSON or a zip of the three
// output files.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/table"
)

// Server holds what the handlers need. clients is the roster preloaded at
// startup; nil means every request must upload its own client list.
type Server struct {
	cfg     *config.Config
	clients *table.Table
}

// New builds a Server around the loaded configuration and an optional
// preloaded client table.
func New(cfg *config.Config, clients *table.Table) *Server {
	return &Server{cfg: cfg, clients: clients}
}

// Router assembles the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/clean", s.handleClean)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}

// requestLogger logs every request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Addr formats the listen address from config.
func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Server.Port)
}
