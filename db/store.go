// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Atzphere/VOC-Elections/models"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// timeLayout is fixed width so computed_at sorts in time order as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	ErrNotFound       = errors.New("run not found")
	ErrUnsupportedDB  = errors.New("unsupported database type")
	ErrDuplicateRunID = errors.New("run already stored")
)

// Open connects to the database and checks it is reachable
func Open(dbType, url string) (*sql.DB, error) {
	if dbType != TypeSQLite && dbType != TypePostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDB, dbType)
	}
	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbType, err)
	}
	if dbType == TypeSQLite {
		// One writer; also keeps :memory: databases on a single connection
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}
	return conn, nil
}

// Store persists run reports. Runs are immutable once saved.
type Store struct {
	db     *sql.DB
	dbType string
}

func NewStore(db *sql.DB, dbType string) *Store {
	return &Store{db: db, dbType: dbType}
}

// SaveReport stores rep together with its winner and problem rows
func (s *Store) SaveReport(ctx context.Context, rep *models.RunReport) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM run WHERE id = ?`), rep.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateRunID, rep.ID)
	}

	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO run (id, method, max_rank, rounds, inputs_hash, computed_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), rep.ID, rep.Method, rep.MaxRank, rep.Rounds, rep.InputsHash,
		rep.ComputedAt.UTC().Format(timeLayout), string(payload))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, p := range rep.Positions {
		for _, w := range p.Winners {
			_, err = tx.ExecContext(ctx, s.rebind(`
				INSERT INTO winner (run_id, position_name, candidate_name, pref_rank, round)
				VALUES (?, ?, ?, ?, ?)
			`), rep.ID, p.Position, w.Name, w.Rank, w.Round)
			if err != nil {
				return fmt.Errorf("insert winner %s: %w", w.Name, err)
			}
		}
	}

	for i, pr := range rep.Problems {
		_, err = tx.ExecContext(ctx, s.rebind(`
			INSERT INTO problem (run_id, seq, kind, position_name, round, detail)
			VALUES (?, ?, ?, ?, ?, ?)
		`), rep.ID, i, pr.Kind, pr.Position, pr.Round, pr.Detail)
		if err != nil {
			return fmt.Errorf("insert problem: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetReport loads the full report for a run
func (s *Store) GetReport(ctx context.Context, id string) (*models.RunReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT payload FROM run WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	var rep models.RunReport
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return nil, fmt.Errorf("parse run payload: %w", err)
	}
	return &rep, nil
}

// ListRuns returns run summaries, newest first. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]models.RunSummary, error) {
	query := `
		SELECT r.id, r.method, r.inputs_hash, r.computed_at,
		       (SELECT COUNT(*) FROM problem p WHERE p.run_id = r.id)
		FROM run r
		ORDER BY r.computed_at DESC, r.id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []models.RunSummary{}
	for rows.Next() {
		var sum models.RunSummary
		var computedAt string
		if err := rows.Scan(&sum.ID, &sum.Method, &sum.InputsHash, &computedAt, &sum.ProblemCount); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if sum.ComputedAt, err = time.Parse(timeLayout, computedAt); err != nil {
			return nil, fmt.Errorf("parse computed_at: %w", err)
		}
		runs = append(runs, sum)
	}
	return runs, rows.Err()
}

// Win is one stored assignment of a candidate to a position
type Win struct {
	RunID    string `json:"run_id"`
	Position string `json:"position"`
	Rank     int    `json:"rank"`
	Round    int    `json:"round"`
}

// WinsFor lists every stored position candidate has won, newest run first
func (s *Store) WinsFor(ctx context.Context, candidate string) ([]Win, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT w.run_id, w.position_name, w.pref_rank, w.round
		FROM winner w
		JOIN run r ON r.id = w.run_id
		WHERE w.candidate_name = ?
		ORDER BY r.computed_at DESC, w.position_name
	`), candidate)
	if err != nil {
		return nil, fmt.Errorf("query wins: %w", err)
	}
	defer rows.Close()

	wins := []Win{}
	for rows.Next() {
		var w Win
		if err := rows.Scan(&w.RunID, &w.Position, &w.Rank, &w.Round); err != nil {
			return nil, fmt.Errorf("scan win: %w", err)
		}
		wins = append(wins, w)
	}
	return wins, rows.Err()
}

// Ping checks the connection, for health checks
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rebind rewrites ? placeholders as $n for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
