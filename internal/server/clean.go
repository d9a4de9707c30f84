package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/fetcher"
	"github.com/sells-group/leadclean/internal/table"
	"github.com/sells-group/leadclean/internal/writer"
)

// maxUploadBytes bounds one multipart request body.
const maxUploadBytes = 64 << 20

type cleanCounts struct {
	Leads   int `json:"leads"`
	Cleaned int `json:"cleaned"`
	Review  int `json:"review"`
	Removed int `json:"removed"`
}

type cleanResponse struct {
	RunID   string            `json:"runId"`
	Counts  cleanCounts       `json:"counts"`
	Cleaned *table.Table      `json:"cleaned"`
	Review  []dedup.ReviewRow `json:"review"`
	Removed *table.Table      `json:"removed"`
}

// handleClean runs one dedup pass over an uploaded leads spreadsheet. The
// client list comes from the "clients" upload when present, otherwise from
// the roster preloaded at startup. Form values threshold, profile,
// lead_column, client_column, and exclude_flagged override the configured
// match section for this request only; format=zip switches the response
// from JSON to a zip of the three output files.
func (s *Server) handleClean(w http.ResponseWriter, r *http.Request) {
	runID := uuid.NewString()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	opts, err := s.matchOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fileFormat := r.FormValue("output_format")
	if fileFormat == "" {
		fileFormat = s.cfg.Output.Format
	}
	format, err := writer.ParseFormat(fileFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	leads, err := s.formTable(r, "leads")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if leads == nil {
		writeError(w, http.StatusBadRequest, "leads file is required")
		return
	}

	clients, err := s.formTable(r, "clients")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if clients == nil {
		clients = s.clients
	}
	if clients == nil {
		writeError(w, http.StatusBadRequest, "clients file is required when no roster is configured")
		return
	}

	res, err := dedup.Run(r.Context(), leads, clients, opts)
	if err != nil {
		if eris.Is(err, dedup.ErrSchema) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		zap.L().Error("clean request failed",
			zap.String("run_id", runID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "dedup run failed")
		return
	}

	zap.L().Info("clean request complete",
		zap.String("run_id", runID),
		zap.Int("leads", res.LeadCount),
		zap.Int("cleaned", res.CleanedCount),
		zap.Int("review", res.ReviewCount),
		zap.Int("removed", res.RemovedCount),
	)

	if r.FormValue("format") == "zip" {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "leadclean_"+runID+".zip"))
		if err := writer.WriteZip(w, format, res); err != nil {
			// Headers are gone; all we can do is log.
			zap.L().Error("write zip response",
				zap.String("run_id", runID),
				zap.Error(err),
			)
		}
		return
	}

	resp := cleanResponse{
		RunID: runID,
		Counts: cleanCounts{
			Leads:   res.LeadCount,
			Cleaned: res.CleanedCount,
			Review:  res.ReviewCount,
			Removed: res.RemovedCount,
		},
		Cleaned: res.Cleaned,
		Review:  res.ReviewRows,
		Removed: res.Removed,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp) //nolint:errcheck
}

// matchOptions applies per-request overrides on top of the configured match
// section. The profile applies first so explicit values win over it.
func (s *Server) matchOptions(r *http.Request) (dedup.Options, error) {
	matchCfg := s.cfg.Match

	if name := r.FormValue("profile"); name != "" {
		p, err := config.ResolveProfile(matchCfg.Profiles, name)
		if err != nil {
			return dedup.Options{}, err
		}
		p.Apply(&matchCfg)
	}
	if v := r.FormValue("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return dedup.Options{}, eris.Errorf("server: threshold %q is not a number", v)
		}
		matchCfg.Threshold = f
	}
	if v := r.FormValue("lead_column"); v != "" {
		matchCfg.LeadColumn = v
	}
	if v := r.FormValue("client_column"); v != "" {
		matchCfg.ClientColumn = v
	}
	if v := r.FormValue("exclude_flagged"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return dedup.Options{}, eris.Errorf("server: exclude_flagged %q is not a bool", v)
		}
		matchCfg.ExcludeFlagged = b
	}

	if matchCfg.Threshold <= 0 || matchCfg.Threshold >= 100 {
		return dedup.Options{}, eris.Errorf("server: threshold must be inside (0, 100), got %v", matchCfg.Threshold)
	}
	return matchCfg.Options(), nil
}

// formTable parses an uploaded spreadsheet part. A missing part returns
// (nil, nil) so the caller can fall back.
func (s *Server) formTable(r *http.Request, field string) (*table.Table, error) {
	file, hdr, err := r.FormFile(field)
	if err != nil {
		if eris.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "server: read %s upload", field)
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, eris.Wrapf(err, "server: read %s upload", field)
	}

	tbl, err := fetcher.ParseTable(data, hdr.Filename, s.cfg.Input.FetchOptions())
	if err != nil {
		return nil, eris.Wrapf(err, "server: parse %s upload", field)
	}
	return tbl, nil
}
