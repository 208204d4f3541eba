// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/testutil"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema failed: %v", err)
	}
}

func TestSaveAndGetReport(t *testing.T) {
	store := testutil.SetupTestStore(t)
	rep := testutil.SampleReport()
	id := testutil.SaveTestReport(t, store, rep)

	got, err := store.GetReport(t.Context(), id)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != id || got.InputsHash != rep.InputsHash {
		t.Errorf("round trip lost run fields: %+v", got)
	}
	if !got.ComputedAt.Equal(rep.ComputedAt) {
		t.Errorf("computed_at changed: %v vs %v", got.ComputedAt, rep.ComputedAt)
	}
	if len(got.Positions) != 2 || got.Positions[0].Winners[0].Name != "Alice Smith" {
		t.Errorf("positions not restored: %+v", got.Positions)
	}
}

func TestSaveReport_Duplicate(t *testing.T) {
	store := testutil.SetupTestStore(t)
	rep := testutil.SampleReport()
	testutil.SaveTestReport(t, store, rep)

	err := store.SaveReport(t.Context(), rep)
	if !errors.Is(err, db.ErrDuplicateRunID) {
		t.Errorf("expected ErrDuplicateRunID, got %v", err)
	}
}

func TestGetReport_NotFound(t *testing.T) {
	store := testutil.SetupTestStore(t)
	if _, err := store.GetReport(t.Context(), "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	store := testutil.SetupTestStore(t)

	older := testutil.SampleReport()
	older.ComputedAt = time.Now().UTC().Add(-time.Hour)
	testutil.SaveTestReport(t, store, older)

	newer := testutil.SampleReport()
	newer.Problems = nil
	testutil.SaveTestReport(t, store, newer)

	runs, err := store.ListRuns(t.Context(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("expected newest first, got %s", runs[0].ID)
	}
	if runs[0].ProblemCount != 0 || runs[1].ProblemCount != 1 {
		t.Errorf("unexpected problem counts %d %d", runs[0].ProblemCount, runs[1].ProblemCount)
	}

	limited, err := store.ListRuns(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestListRuns_SubSecondOrder(t *testing.T) {
	store := testutil.SetupTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)

	older := testutil.SampleReport()
	older.ComputedAt = base.Add(100 * time.Millisecond)
	testutil.SaveTestReport(t, store, older)

	newer := testutil.SampleReport()
	newer.ComputedAt = base.Add(120 * time.Millisecond)
	testutil.SaveTestReport(t, store, newer)

	latest, err := store.ListRuns(t.Context(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(latest) != 1 || latest[0].ID != newer.ID {
		t.Fatalf("expected %s as latest, got %+v", newer.ID, latest)
	}
	if !latest[0].ComputedAt.Equal(newer.ComputedAt) {
		t.Errorf("computed_at round trip: got %v, want %v", latest[0].ComputedAt, newer.ComputedAt)
	}

	wins, err := store.WinsFor(t.Context(), "Alice Smith")
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 2 || wins[0].RunID != newer.ID {
		t.Errorf("expected newest win first, got %+v", wins)
	}
}

func TestListRuns_Empty(t *testing.T) {
	store := testutil.SetupTestStore(t)
	runs, err := store.ListRuns(t.Context(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", runs)
	}
}

func TestWinsFor(t *testing.T) {
	store := testutil.SetupTestStore(t)
	id := testutil.SaveTestReport(t, store, testutil.SampleReport())

	wins, err := store.WinsFor(t.Context(), "Alice Smith")
	if err != nil {
		t.Fatal(err)
	}
	if len(wins) != 1 || wins[0].RunID != id || wins[0].Position != "President" || wins[0].Rank != 1 {
		t.Errorf("unexpected wins %+v", wins)
	}

	none, err := store.WinsFor(t.Context(), "Nobody")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("expected no wins, got %v", none)
	}
}

func TestOpen_Unsupported(t *testing.T) {
	if _, err := db.Open("mysql", "x"); !errors.Is(err, db.ErrUnsupportedDB) {
		t.Errorf("expected ErrUnsupportedDB, got %v", err)
	}
}
