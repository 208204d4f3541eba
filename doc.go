// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VOC elections tool.

Each position is tabulated on its own with ranked ballots. A candidate may run
for up to three positions in preference order, so independent tabulation can
award one person several seats. The reconciliation engine settles every
candidate in exactly one position, preferring their most-wanted positions,
and reports the positions needing manual review.

# Running an Election

	go run . -c election.yaml -n nominees.csv -b ballots.csv

The report is printed to stdout (-json for JSON) and stored in the database.

# Serving Results

	go run . -serve -p 3318

Serves stored runs over a read-only HTTP API. Combine with -c/-n/-b to run
first and then serve.

# Configuration

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): connection string, default elections.db for SQLite
  - PORT (-p): Server port (default: 3318)
  - VOC_API_KEY: membership API key, needed when voter verification is on

Settings may also come from a .env file (-env).

# Architecture

  - registry: canonical candidate set, joint tickets, ballot validation
  - election: one position's election and its rounds
  - reconcile: cross-position reconciliation engine
  - tabulate: ranked-choice evaluators
  - ingest: nominee and voting form readers
  - verify: voter screening against the membership API
  - report: run reports and their text rendering
  - db: schema and run storage
  - handlers, router, middleware: HTTP API
  - cliparse: flags, environment, and the YAML election definition

See package documentation for each component.
*/
package main
