// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the stored election runs.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store)

# Endpoints

Health (pings the database, 503 when it is unreachable):

	GET /health

Runs:

	GET /runs                           - Run summaries, newest first
	GET /runs/latest                    - Most recent full report
	GET /runs/{id}                      - Full report
	GET /runs/{id}/problems             - Positions needing review
	GET /runs/{id}/positions/{position} - One position's outcome

Candidates:

	GET /candidates/{name}/wins - Positions won across stored runs

Every route except health and root is wrapped in middleware.WithLogging.
*/
package router
