// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs one line per request with method, path, remote, status, and duration_ms.

# CORS Middleware

Enable cross-origin reads for dashboards:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

The API is read-only, so only GET and OPTIONS are allowed.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Read bounded integer query parameters:

	limit, err := middleware.QueryInt(r, "limit", 20, 100)
*/
package middleware
