// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Atzphere/VOC-Elections/cliparse"
	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/registry"
)

// SetupTestDB creates a fresh SQLite database with the full schema. The file
// lives in the test's temp dir and is closed on cleanup.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

// SetupTestStore wraps SetupTestDB in a Store
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), db.TypeSQLite)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: db.TypeSQLite,
		DatabaseURL:  ":memory:",
		Serve:        true,
	}
}

// Logger discards everything
func Logger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Candidate builds an eligible candidate with positions in preference order
func Candidate(name string, positions ...string) *models.Candidate {
	email := uuid.NewString()[:8] + "@example.com"
	return &models.Candidate{
		Name:      name,
		Positions: positions,
		Info:      models.NewInfo([]string{email}, true, []int{1, 2}),
	}
}

// NewRegistry registers cands in order
func NewRegistry(t *testing.T, cands ...*models.Candidate) *registry.Registry {
	t.Helper()
	reg := registry.New(Logger())
	for _, c := range cands {
		if err := reg.Add(c); err != nil {
			t.Fatalf("Failed to register %s: %v", c.Name, err)
		}
	}
	return reg
}

// Ballots returns count copies of the same ranking
func Ballots(t *testing.T, reg *registry.Registry, count int, names ...string) []*models.Ballot {
	t.Helper()
	out := make([]*models.Ballot, 0, count)
	for range count {
		b, err := reg.BuildBallot(names)
		if err != nil {
			t.Fatalf("Failed to build ballot %v: %v", names, err)
		}
		out = append(out, b)
	}
	return out
}

// SampleReport returns a two-position report with one problem
func SampleReport() *models.RunReport {
	return &models.RunReport{
		ID:         uuid.NewString(),
		ComputedAt: time.Now().UTC(),
		Method:     models.MethodPBV,
		MaxRank:    3,
		Rounds:     2,
		InputsHash: "deadbeef",
		Positions: []models.PositionReport{
			{
				Position: "President",
				Seats:    1,
				Filled:   1,
				State:    models.StateSatisfied,
				Winners: []models.WinnerReport{
					{Name: "Alice Smith", Emails: []string{"alice@example.com"}, Rank: 1, Round: 1, Threshold: 1},
				},
				OriginalCandidates: []string{"Alice Smith", "Bob Jones"},
			},
			{
				Position:           "Archivist",
				Seats:              1,
				State:              models.StateExhausted,
				Winners:            []models.WinnerReport{},
				OriginalCandidates: []string{"Alice Smith"},
			},
		},
		Problems: []models.ProblemReport{
			{Kind: models.ProblemExhausted, Position: "Archivist", Round: 2, Detail: "no candidates left", Candidates: []string{"Alice Smith"}},
		},
	}
}

// SaveTestReport stores rep and returns its ID
func SaveTestReport(t *testing.T, store *db.Store, rep *models.RunReport) string {
	t.Helper()
	if err := store.SaveReport(t.Context(), rep); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}
	return rep.ID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}
