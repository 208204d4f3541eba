// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types both SQLite and PostgreSQL accept. Timestamps
// are RFC 3339 text and the report payload is JSON text.
const schema = `
-- Runs
CREATE TABLE IF NOT EXISTS run (
    id TEXT PRIMARY KEY,
    method TEXT NOT NULL DEFAULT 'pbv',
    max_rank INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    inputs_hash TEXT NOT NULL,
    computed_at TEXT NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_inputs_hash ON run(inputs_hash);
CREATE INDEX IF NOT EXISTS idx_run_computed_at ON run(computed_at);

-- Winners
CREATE TABLE IF NOT EXISTS winner (
    run_id TEXT NOT NULL REFERENCES run(id) ON DELETE CASCADE,
    position_name TEXT NOT NULL,
    candidate_name TEXT NOT NULL,
    pref_rank INTEGER NOT NULL,
    round INTEGER NOT NULL,
    PRIMARY KEY (run_id, position_name, candidate_name)
);

CREATE INDEX IF NOT EXISTS idx_winner_candidate ON winner(candidate_name);

-- Problems
CREATE TABLE IF NOT EXISTS problem (
    run_id TEXT NOT NULL REFERENCES run(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    kind TEXT NOT NULL CHECK (kind IN ('exhausted', 'overfilled', 'evaluation_failed')),
    position_name TEXT NOT NULL,
    round INTEGER NOT NULL,
    detail TEXT NOT NULL,
    PRIMARY KEY (run_id, seq)
);
`
