// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the stored election runs.

# Handler Types

RunsHandler serves reports saved by the command-line run. It is created with
a db.Store:

	runsHandler := handlers.NewRunsHandler(store)

# Endpoints

All endpoints are read-only; runs are immutable once stored.

	GET /runs                         → ListRuns (?limit=n, default 20, max 100)
	GET /runs/latest                  → GetLatest
	GET /runs/{id}                    → GetRun
	GET /runs/{id}/problems           → GetProblems
	GET /runs/{id}/positions/{position} → GetPosition
	GET /candidates/{name}/wins       → GetCandidateWins

Unknown runs and positions return 404. Database failures are logged and
return 500 without details.
*/
package handlers
