// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"strings"
	"testing"
)

const sampleElection = `
method: pbv
max_rank: 3
positions:
  - {name: President, seats: 1, column: 10}
  - {name: Trip Coordinator, seats: 2, column: 11}
joint_tickets:
  - name: Alice Smith and Bob Jones
    candidates: [Alice Smith, Bob Jones]
    positions: [Trip Coordinator]
referenda:
  - {position: Archivist, candidate: Carol White, column: 12}
renames:
  Trips: Trip Coordinator
nominees:
  start_row: 2
voting:
  start_row: 1
  finished_column: -1
`

func TestParseElectionConfig(t *testing.T) {
	cfg, err := ParseElectionConfig(strings.NewReader(sampleElection))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Method != "pbv" || cfg.MaxRank != 3 {
		t.Errorf("unexpected method/max_rank: %s %d", cfg.Method, cfg.MaxRank)
	}
	if len(cfg.JointTickets) != 1 || len(cfg.JointTickets[0].Candidates) != 2 {
		t.Errorf("expected one joint ticket with two candidates, got %+v", cfg.JointTickets)
	}

	specs := cfg.Specs()
	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}
	if specs[1].Seats != 2 {
		t.Errorf("expected 2 seats for Trip Coordinator, got %d", specs[1].Seats)
	}
	if specs[2].Position != "Archivist" || specs[2].Seats != 1 {
		t.Errorf("referendum spec wrong: %+v", specs[2])
	}
}

func TestIngestConfig_Overlay(t *testing.T) {
	cfg, err := ParseElectionConfig(strings.NewReader(sampleElection))
	if err != nil {
		t.Fatal(err)
	}
	ic := cfg.IngestConfig()

	if ic.CandidateStartRow != 2 || ic.VotingStartRow != 1 {
		t.Errorf("start rows not overlaid: %d %d", ic.CandidateStartRow, ic.VotingStartRow)
	}
	if ic.FinishedColumn != -1 {
		t.Errorf("expected finished check disabled, got %d", ic.FinishedColumn)
	}
	// Untouched fields keep their defaults
	if ic.SurnameColumn != 9 || ic.Abstain != "Abstain" {
		t.Errorf("defaults lost: surname=%d abstain=%q", ic.SurnameColumn, ic.Abstain)
	}
	if len(ic.PositionColumns) != 3 {
		t.Errorf("expected 3 ballot columns, got %d", len(ic.PositionColumns))
	}
	if len(ic.Referenda) != 1 || ic.Referenda[0].Candidate != "Carol White" {
		t.Errorf("referendum not carried: %+v", ic.Referenda)
	}
	if ic.Renames["Trips"] != "Trip Coordinator" {
		t.Errorf("renames not carried: %v", ic.Renames)
	}
}

func TestIngestConfig_MaxPositionsFollowsRankCap(t *testing.T) {
	const positions = `
positions:
  - {name: President, column: 10}
`
	tests := []struct {
		name string
		yaml string
		want int
	}{
		{"cap truncates nominations", "max_rank: 2\n" + positions, 2},
		{"no cap keeps the default", positions, 3},
		{"explicit nominee limit wins", "max_rank: 2\nnominees:\n  max_positions: 1\n" + positions, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseElectionConfig(strings.NewReader(tt.yaml))
			if err != nil {
				t.Fatal(err)
			}
			if got := cfg.IngestConfig().MaxPositions; got != tt.want {
				t.Errorf("expected MaxPositions %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseElectionConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"empty", "method: pbv\n", ErrNoPositions},
		{"duplicate", "positions:\n  - {name: A, seats: 1, column: 1}\n  - {name: A, seats: 1, column: 2}\n", ErrDuplicatePosition},
		{"negative column", "positions:\n  - {name: A, seats: 1, column: -1}\n", ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseElectionConfig(strings.NewReader(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseElectionConfig_UnknownKey(t *testing.T) {
	_, err := ParseElectionConfig(strings.NewReader("positons:\n  - {name: A}\n"))
	if err == nil {
		t.Error("expected error for misspelled key")
	}
}

func TestParseElectionConfig_Verification(t *testing.T) {
	doc := sampleElection + `
verification:
  api_url: https://members.example.com/api/member
  member_id_column: 17
  student_number_column: 18
  end_date_column: 1
`
	cfg, err := ParseElectionConfig(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Verification == nil {
		t.Fatal("verification section not decoded")
	}
	cols := cfg.Verification.Columns()
	if cols.MemberID != 17 || cols.StudentNumber != 18 || cols.EndDate != 1 {
		t.Errorf("unexpected columns %+v", cols)
	}
}

func TestParseElectionConfig_VerificationNeedsURL(t *testing.T) {
	doc := sampleElection + "\nverification:\n  member_id_column: 17\n"
	if _, err := ParseElectionConfig(strings.NewReader(doc)); err == nil {
		t.Error("expected error when verification has no api_url")
	}
}
