// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation, and run storage.

# Connecting

Open accepts "sqlite" (modernc.org/sqlite, pure Go) or "postgres" (lib/pq):

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - run: one row per reconciliation run, with the full report as JSON
  - winner: one row per finalized assignment
  - problem: positions needing manual review, in the order raised

# Relationships

	run 1──* winner
	run 1──* problem

All foreign keys use ON DELETE CASCADE.

# Store

Store writes a report and its rows in one transaction and reads them back:

	store := db.NewStore(conn, cfg.DatabaseType)
	err := store.SaveReport(ctx, rep)
	rep, err := store.GetReport(ctx, id)
	runs, err := store.ListRuns(ctx, 20)
	wins, err := store.WinsFor(ctx, "Alice Smith")

Queries are written with ? placeholders and rebound to $n for PostgreSQL.
*/
package db
