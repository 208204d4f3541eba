// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Atzphere/VOC-Elections/db"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/testutil"
)

// serve routes req through a mux so PathValue is populated
func serve(pattern string, fn http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, fn)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func setupHandler(t *testing.T) (*RunsHandler, *db.Store) {
	t.Helper()
	store := testutil.SetupTestStore(t)
	return NewRunsHandler(store), store
}

func TestGetRun(t *testing.T) {
	handler, store := setupHandler(t)
	id := testutil.SaveTestReport(t, store, testutil.SampleReport())

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing run", id, http.StatusOK},
		{"unknown run", "does-not-exist", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/runs/"+tt.id, nil, nil)
			w := serve("GET /runs/{id}", handler.GetRun, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var rep models.RunReport
			if err := json.NewDecoder(w.Body).Decode(&rep); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if rep.ID != id {
				t.Errorf("Expected run %s, got %s", id, rep.ID)
			}
			if len(rep.Positions) != 2 {
				t.Errorf("Expected 2 positions, got %d", len(rep.Positions))
			}
		})
	}
}

func TestListRuns(t *testing.T) {
	handler, store := setupHandler(t)

	older := testutil.SampleReport()
	older.ComputedAt = time.Now().UTC().Add(-time.Hour)
	testutil.SaveTestReport(t, store, older)
	newer := testutil.SampleReport()
	testutil.SaveTestReport(t, store, newer)

	req := testutil.MakeRequest("GET", "/runs", nil, nil)
	w := serve("GET /runs", handler.ListRuns, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var runs []models.RunSummary
	if err := json.NewDecoder(w.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != newer.ID {
		t.Errorf("Expected newest run first, got %+v", runs)
	}
	if runs[0].ProblemCount != 1 {
		t.Errorf("Expected problem count 1, got %d", runs[0].ProblemCount)
	}

	t.Run("limit", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/runs?limit=1", nil, nil)
		w := serve("GET /runs", handler.ListRuns, req)
		var runs []models.RunSummary
		json.NewDecoder(w.Body).Decode(&runs)
		if len(runs) != 1 {
			t.Errorf("Expected 1 run, got %d", len(runs))
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/runs?limit=abc", nil, nil)
		w := serve("GET /runs", handler.ListRuns, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestGetLatest(t *testing.T) {
	handler, store := setupHandler(t)

	req := testutil.MakeRequest("GET", "/runs/latest", nil, nil)
	w := serve("GET /runs/latest", handler.GetLatest, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 with no runs, got %d", w.Code)
	}

	id := testutil.SaveTestReport(t, store, testutil.SampleReport())
	w = serve("GET /runs/latest", handler.GetLatest, testutil.MakeRequest("GET", "/runs/latest", nil, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var rep models.RunReport
	json.NewDecoder(w.Body).Decode(&rep)
	if rep.ID != id {
		t.Errorf("Expected latest run %s, got %s", id, rep.ID)
	}
}

func TestGetProblems(t *testing.T) {
	handler, store := setupHandler(t)
	id := testutil.SaveTestReport(t, store, testutil.SampleReport())

	clean := testutil.SampleReport()
	clean.Problems = nil
	cleanID := testutil.SaveTestReport(t, store, clean)

	req := testutil.MakeRequest("GET", "/runs/"+id+"/problems", nil, nil)
	w := serve("GET /runs/{id}/problems", handler.GetProblems, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var problems []models.ProblemReport
	json.NewDecoder(w.Body).Decode(&problems)
	if len(problems) != 1 || problems[0].Position != "Archivist" {
		t.Errorf("Unexpected problems %+v", problems)
	}

	req = testutil.MakeRequest("GET", "/runs/"+cleanID+"/problems", nil, nil)
	w = serve("GET /runs/{id}/problems", handler.GetProblems, req)
	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("Expected empty array, got %q", body)
	}
}

func TestGetPosition(t *testing.T) {
	handler, store := setupHandler(t)
	id := testutil.SaveTestReport(t, store, testutil.SampleReport())

	tests := []struct {
		name           string
		position       string
		expectedStatus int
	}{
		{"known position", "President", http.StatusOK},
		{"unknown position", "Treasurer", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/runs/" + id + "/positions/" + url.PathEscape(tt.position)
			req := testutil.MakeRequest("GET", path, nil, nil)
			w := serve("GET /runs/{id}/positions/{position}", handler.GetPosition, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var p models.PositionReport
			json.NewDecoder(w.Body).Decode(&p)
			if len(p.Winners) != 1 || p.Winners[0].Name != "Alice Smith" {
				t.Errorf("Unexpected position report %+v", p)
			}
		})
	}
}

func TestGetCandidateWins(t *testing.T) {
	handler, store := setupHandler(t)
	id := testutil.SaveTestReport(t, store, testutil.SampleReport())

	req := testutil.MakeRequest("GET", "/candidates/"+url.PathEscape("Alice Smith")+"/wins", nil, nil)
	w := serve("GET /candidates/{name}/wins", handler.GetCandidateWins, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var wins []db.Win
	json.NewDecoder(w.Body).Decode(&wins)
	if len(wins) != 1 || wins[0].RunID != id || wins[0].Position != "President" {
		t.Errorf("Unexpected wins %+v", wins)
	}
}
