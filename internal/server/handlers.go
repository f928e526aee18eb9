package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ecosdelseo/prospector/internal/export"
	"github.com/ecosdelseo/prospector/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "prospector is running",
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, eris.Wrap(model.ErrValidation, "invalid request body"))
		return
	}
	if strings.TrimSpace(req.City) == "" {
		respondError(w, eris.Wrap(model.ErrValidation, "city is required"))
		return
	}

	// Fire-and-forget: the job runs on the server's base context and the
	// job store is the only channel of observable state.
	jobID, err := s.runner.Start(s.baseCtx, req.City)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Search started in %s", req.City),
		"jobId":     jobID,
		"statusUrl": "/api/scraping/status/" + jobID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, ok := s.jobs.Get(jobID)
	if !ok {
		respondError(w, eris.Wrapf(model.ErrNotFound, "job %s", jobID))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"job":     job,
	})
}

func (s *Server) handleLast(w http.ResponseWriter, r *http.Request) {
	cp, err := s.checkpoints.LoadMostRecent(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if cp == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"hasData": false,
			"message": "no previous results",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"hasData":   true,
		"job":       cp.Job,
		"updatedAt": cp.UpdatedAt,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Businesses []model.EnrichedBusiness `json:"businesses"`
		City       string                   `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, eris.Wrap(model.ErrValidation, "invalid request body"))
		return
	}
	if len(req.Businesses) == 0 {
		respondError(w, eris.Wrap(model.ErrValidation, "no businesses to export"))
		return
	}

	filename, err := export.WriteWorkbook(req.Businesses, req.City, s.cfg.Export.Dir)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         "workbook generated",
		"filename":        filename,
		"downloadUrl":     "/exports/" + filename,
		"totalBusinesses": len(req.Businesses),
	})
}

func (s *Server) handleSchedulerConfigure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		City  string `json:"city"`
		Time  string `json:"time"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, eris.Wrap(model.ErrValidation, "invalid request body"))
		return
	}

	schedule, err := s.sched.Configure(strings.TrimSpace(req.City), req.Time, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("automatic search configured for %s at %s", schedule.City, schedule.Time),
		"config":  schedule,
	})
}

func (s *Server) handleSchedulerStatus(w http.ResponseWriter, r *http.Request) {
	schedule, active := s.sched.Status()
	if !active {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"active":  false,
			"message": "no automatic search configured",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"active":  true,
		"config":  schedule,
	})
}

func (s *Server) handleSchedulerDisable(w http.ResponseWriter, r *http.Request) {
	s.sched.Disable()
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "automatic search disabled",
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

// respondError maps the error taxonomy onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, model.ErrValidation):
		status = http.StatusBadRequest
	case eris.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		zap.L().Error("server: request failed", zap.Error(err))
	}
	respondJSON(w, status, map[string]any{
		"success": false,
		"message": eris.ToString(err, false),
	})
}
