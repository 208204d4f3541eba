package models

import "time"

// Meta choices used on referendum ballots
const (
	ApproveName = "Yes"
	RejectName  = "No"

	// MetaPosition is the placeholder position held by the meta choices
	MetaPosition = "N/A"
)

// Election state constants
const (
	StateOpen      = "open"
	StateSatisfied = "satisfied"
	StateExhausted = "exhausted"
	StateRejected  = "rejected"
)

// Problem kinds
const (
	ProblemExhausted        = "exhausted"
	ProblemOverfilled       = "overfilled"
	ProblemEvaluationFailed = "evaluation_failed"
)

// Tabulation method constants
const (
	MethodPBV = "pbv"
)

// Domain types

// Info holds contact and eligibility details for a candidate.
// Joint tickets carry one email per constituent.
type Info struct {
	Emails         []string `json:"emails"`
	WillBeStudent  bool     `json:"will_be_student"`
	AvailableTerms []int    `json:"available_terms"`
	Eligible       bool     `json:"eligible"`
}

// NewInfo derives eligibility from student status
func NewInfo(emails []string, willBeStudent bool, terms []int) Info {
	return Info{
		Emails:         emails,
		WillBeStudent:  willBeStudent,
		AvailableTerms: terms,
		Eligible:       willBeStudent,
	}
}

type Candidate struct {
	Name         string   `json:"name"`
	Positions    []string `json:"positions"` // priority order, index 0 most preferred
	Info         Info     `json:"info"`
	Joint        bool     `json:"joint"`
	Constituents []string `json:"constituents,omitempty"`
}

// Rank returns the 1-based preference rank of position for this candidate,
// or 0 when the candidate does not list it.
func (c *Candidate) Rank(position string) int {
	for i, p := range c.Positions {
		if p == position {
			return i + 1
		}
	}
	return 0
}

// Contends reports whether the candidate lists position
func (c *Candidate) Contends(position string) bool {
	return c.Rank(position) > 0
}

// IsMeta reports whether the candidate is a referendum meta choice
func (c *Candidate) IsMeta() bool {
	return c.Name == ApproveName || c.Name == RejectName
}

func (c *Candidate) String() string {
	return c.Name
}

// JointTicket declares candidates running together as one unit
type JointTicket struct {
	Name       string   `yaml:"name" json:"name"`
	Candidates []string `yaml:"candidates" json:"candidates"`
	Positions  []string `yaml:"positions" json:"positions"`
}

// Report types

type WinnerReport struct {
	Name      string   `json:"name"`
	Emails    []string `json:"emails"`
	Rank      int      `json:"rank"` // preference rank of the position for this winner
	Round     int      `json:"round"`
	Threshold int      `json:"threshold"`
	Joint     bool     `json:"joint,omitempty"`
}

type PositionReport struct {
	Position           string         `json:"position"`
	Seats              int            `json:"seats"`
	Filled             int            `json:"filled"`
	State              string         `json:"state"`
	Winners            []WinnerReport `json:"winners"`
	OriginalCandidates []string       `json:"original_candidates"`
}

type ProblemReport struct {
	Kind       string   `json:"kind"`
	Position   string   `json:"position"`
	Round      int      `json:"round"`
	Detail     string   `json:"detail"`
	Candidates []string `json:"candidates,omitempty"`
}

// RunReport is the immutable record of one reconciliation run
type RunReport struct {
	ID         string           `json:"id"`
	ComputedAt time.Time        `json:"computed_at"`
	Method     string           `json:"method"`
	MaxRank    int              `json:"max_rank"`
	Rounds     int              `json:"rounds"`
	InputsHash string           `json:"inputs_hash"` // fingerprint of candidates and ballots
	Positions  []PositionReport `json:"positions"`
	Problems   []ProblemReport  `json:"problems"`
}

type RunSummary struct {
	ID           string    `json:"id"`
	ComputedAt   time.Time `json:"computed_at"`
	Method       string    `json:"method"`
	InputsHash   string    `json:"inputs_hash"`
	ProblemCount int       `json:"problem_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
