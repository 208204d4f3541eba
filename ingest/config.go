// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ingest

import "github.com/Atzphere/VOC-Elections/models"

// PositionColumn maps a position to its column in the voting form
type PositionColumn struct {
	Position string
	Column   int
}

// RowFilter screens voting form data rows before ballots are built
type RowFilter func(rows [][]string) ([][]string, error)

// Referendum declares a single-item approve/reject vote
type Referendum struct {
	Position  string
	Candidate string
}

// Config describes the form layouts and the candidacies declared outside the
// nominee form. Columns and rows are 0-based.
type Config struct {
	CandidateStartRow int
	VotingStartRow    int

	// Nominee form columns
	TypeColumn      int
	SurnameColumn   int
	FirstNameColumn int
	EmailColumn     int
	StudentColumn   int
	TermsColumn     int
	PositionsColumn int

	// FinishedColumn must read TRUE for a ballot row to count; -1 disables it
	FinishedColumn int

	MaxPositions    int
	Abstain         string
	Renames         map[string]string
	PositionColumns []PositionColumn
	Joints          []models.JointTicket
	Referenda       []Referendum

	// BallotFilter, when set, sees every data row of the voting form
	BallotFilter RowFilter
}

// DefaultConfig matches the nominee and voting form exports used so far
func DefaultConfig() Config {
	return Config{
		CandidateStartRow: 9,
		VotingStartRow:    3,
		TypeColumn:        2,
		SurnameColumn:     9,
		FirstNameColumn:   10,
		EmailColumn:       11,
		StudentColumn:     17,
		TermsColumn:       18,
		PositionsColumn:   19,
		FinishedColumn:    6,
		MaxPositions:      3,
		Abstain:           "Abstain",
	}
}
