// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/middleware"
	"github.com/Atzphere/VOC-Elections/models"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

type RunsHandler struct {
	store *db.Store
}

func NewRunsHandler(store *db.Store) *RunsHandler {
	return &RunsHandler{store: store}
}

// ListRuns handles GET /runs?limit=n
// Returns run summaries, newest first
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, err := middleware.QueryInt(r, "limit", defaultRunLimit, maxRunLimit)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	runs, err := h.store.ListRuns(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, runs)
}

// GetLatest handles GET /runs/latest
func (h *RunsHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	runs, err := h.store.ListRuns(r.Context(), 1)
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(runs) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No runs stored")
		return
	}

	rep, ok := h.loadReport(w, r, runs[0].ID)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rep)
}

// GetRun handles GET /runs/{id}
func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadReport(w, r, r.PathValue("id"))
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, rep)
}

// GetProblems handles GET /runs/{id}/problems
// Returns the positions needing manual review
func (h *RunsHandler) GetProblems(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.loadReport(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	problems := rep.Problems
	if problems == nil {
		problems = []models.ProblemReport{}
	}
	middleware.JSONResponse(w, http.StatusOK, problems)
}

// GetPosition handles GET /runs/{id}/positions/{position}
func (h *RunsHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	position := r.PathValue("position")
	if position == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "position is required")
		return
	}

	rep, ok := h.loadReport(w, r, r.PathValue("id"))
	if !ok {
		return
	}

	for _, p := range rep.Positions {
		if p.Position == position {
			middleware.JSONResponse(w, http.StatusOK, p)
			return
		}
	}
	middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
}

// GetCandidateWins handles GET /candidates/{name}/wins
// Returns every stored position the candidate has won
func (h *RunsHandler) GetCandidateWins(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	wins, err := h.store.WinsFor(r.Context(), name)
	if err != nil {
		slog.Error("failed to query wins", "candidate", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, wins)
}

// loadReport writes the error response itself and reports whether to continue
func (h *RunsHandler) loadReport(w http.ResponseWriter, r *http.Request, id string) (*models.RunReport, bool) {
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return nil, false
	}

	rep, err := h.store.GetReport(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Run not found")
		return nil, false
	}
	if err != nil {
		slog.Error("failed to load run", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	return rep, true
}
