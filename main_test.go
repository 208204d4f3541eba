package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Atzphere/VOC-Elections/cliparse"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/testutil"
)

const electionYAML = `
method: pbv
positions:
  - {name: President, seats: 1, column: 1}
  - {name: Treasurer, seats: 1, column: 2}
nominees:
  start_row: 1
  type_column: 0
  surname_column: 1
  first_name_column: 2
  email_column: 3
  student_column: 4
  terms_column: 5
  positions_column: 6
voting:
  start_row: 1
  finished_column: 0
`

const nomineesCSV = `Type,Surname,First,Email,Student,Terms,Roles
IP Address,Smith,Alice,alice@example.com,Yes,Term 1,"President,Treasurer"
IP Address,Jones,Bob,bob@example.com,Yes,Term 1,Treasurer
IP Address,Lee,Cara,cara@example.com,Yes,Term 2,President
`

const ballotsCSV = `Finished,President,Treasurer
TRUE,"Alice Smith,Cara Lee","Alice Smith,Bob Jones"
TRUE,"Alice Smith,Cara Lee","Alice Smith,Bob Jones"
TRUE,"Cara Lee,Alice Smith","Bob Jones,Alice Smith"
FALSE,"Cara Lee","Bob Jones"
`

func writeInputs(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"election.yaml": electionYAML,
		"nominees.csv":  nomineesCSV,
		"ballots.csv":   ballotsCSV,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfg := testutil.GetTestConfig()
	cfg.ElectionFile = filepath.Join(dir, "election.yaml")
	cfg.NomineesPath = filepath.Join(dir, "nominees.csv")
	cfg.BallotsPath = filepath.Join(dir, "ballots.csv")
	return cfg
}

func TestRunElection(t *testing.T) {
	cfg := writeInputs(t)
	store := testutil.SetupTestStore(t)
	var out bytes.Buffer

	rep, err := runElection(t.Context(), cfg, store, &out)
	if err != nil {
		t.Fatal(err)
	}

	winners := map[string]string{}
	for _, p := range rep.Positions {
		if p.State != models.StateSatisfied {
			t.Errorf("%s not satisfied: %s", p.Position, p.State)
		}
		for _, w := range p.Winners {
			winners[p.Position] = w.Name
		}
	}
	if winners["President"] != "Alice Smith" || winners["Treasurer"] != "Bob Jones" {
		t.Errorf("unexpected winners %v", winners)
	}
	if len(rep.Problems) != 0 {
		t.Errorf("expected no problems, got %+v", rep.Problems)
	}

	if !strings.Contains(out.String(), "Alice Smith, 1st choice") {
		t.Errorf("text report missing winner line:\n%s", out.String())
	}

	stored, err := store.GetReport(t.Context(), rep.ID)
	if err != nil {
		t.Fatalf("report not stored: %v", err)
	}
	if stored.InputsHash != rep.InputsHash {
		t.Error("stored report differs from printed one")
	}
}

func TestRunElection_JSON(t *testing.T) {
	cfg := writeInputs(t)
	cfg.JSON = true
	store := testutil.SetupTestStore(t)
	var out bytes.Buffer

	rep, err := runElection(t.Context(), cfg, store, &out)
	if err != nil {
		t.Fatal(err)
	}

	var decoded models.RunReport
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.ID != rep.ID {
		t.Errorf("expected id %s, got %s", rep.ID, decoded.ID)
	}
}

func TestRunElection_SameInputsSameHash(t *testing.T) {
	cfg := writeInputs(t)
	store := testutil.SetupTestStore(t)

	first, err := runElection(t.Context(), cfg, store, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := runElection(t.Context(), cfg, store, &bytes.Buffer{})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == second.ID {
		t.Error("each run should get a new id")
	}
	if first.InputsHash != second.InputsHash {
		t.Error("identical inputs should share a fingerprint")
	}
}

func TestRunElection_BadDefinition(t *testing.T) {
	cfg := writeInputs(t)
	cfg.ElectionFile = filepath.Join(t.TempDir(), "missing.yaml")

	if _, err := runElection(t.Context(), cfg, testutil.SetupTestStore(t), &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing election definition")
	}
}
