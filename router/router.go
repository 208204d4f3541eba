// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/handlers"
	"github.com/Atzphere/VOC-Elections/middleware"
)

func NewRouter(store *db.Store) *http.ServeMux {
	mux := http.NewServeMux()

	runsHandler := handlers.NewRunsHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Stored runs (read-only)
	mux.HandleFunc("GET /runs", middleware.WithLogging(runsHandler.ListRuns))
	mux.HandleFunc("GET /runs/latest", middleware.WithLogging(runsHandler.GetLatest))
	mux.HandleFunc("GET /runs/{id}", middleware.WithLogging(runsHandler.GetRun))
	mux.HandleFunc("GET /runs/{id}/problems", middleware.WithLogging(runsHandler.GetProblems))
	mux.HandleFunc("GET /runs/{id}/positions/{position}", middleware.WithLogging(runsHandler.GetPosition))

	// Candidates across runs
	mux.HandleFunc("GET /candidates/{name}/wins", middleware.WithLogging(runsHandler.GetCandidateWins))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("VOC elections API v1"))
	})

	return mux
}
