// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Atzphere/VOC-Elections/models"
)

var (
	ErrNoCandidates = errors.New("no candidates remaining")
	ErrClosed       = errors.New("election is closed")
	ErrNoEvaluator  = errors.New("no evaluator configured")
)

// Evaluator is the external ranked-choice method run for one position.
// It returns at most seats winners, ordered by the method's own ranking.
type Evaluator interface {
	Evaluate(candidates []*models.Candidate, ballots []*models.Ballot, seats int) ([]*models.Candidate, error)
}

// EvaluatorFunc adapts a plain function to Evaluator
type EvaluatorFunc func(candidates []*models.Candidate, ballots []*models.Ballot, seats int) ([]*models.Candidate, error)

func (f EvaluatorFunc) Evaluate(candidates []*models.Candidate, ballots []*models.Ballot, seats int) ([]*models.Candidate, error) {
	return f(candidates, ballots, seats)
}

// Win pairs a round winner with the rank they gave this position
type Win struct {
	Candidate *models.Candidate
	Rank      int
}

// RoundResult is the outcome of one tabulation pass
type RoundResult struct {
	Wins       []Win
	Contenders int  // unfinalized pool size when the round ran
	NoResult   bool // referendum rejected
	Referendum bool
	Tally      int  // approve minus reject, referendum only
	Overflow   bool // evaluator returned more winners than seats
}

// PositionElection is one position's pool, ballots and finalized winners
type PositionElection struct {
	Position string
	Seats    int

	candidates []*models.Candidate
	original   []*models.Candidate
	ballots    []*models.Ballot
	winners    []*models.Candidate
	state      string
	evaluator  Evaluator
	logger     *slog.Logger
}

type Option func(*PositionElection)

// WithLogger sets the logger used for removal and tally messages
func WithLogger(logger *slog.Logger) Option {
	return func(e *PositionElection) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an open election. Seats below 1 default to 1.
func New(position string, candidates []*models.Candidate, ballots []*models.Ballot, seats int, evaluator Evaluator, opts ...Option) *PositionElection {
	if seats < 1 {
		seats = 1
	}
	e := &PositionElection{
		Position:   position,
		Seats:      seats,
		candidates: slices.Clone(candidates),
		original:   slices.Clone(candidates),
		ballots:    ballots,
		state:      models.StateOpen,
		evaluator:  evaluator,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeRoundWinners runs one tabulation over the current pool. It returns
// ErrNoCandidates when every contender is gone; a rejected referendum is
// reported through RoundResult.NoResult instead.
func (e *PositionElection) ComputeRoundWinners() (RoundResult, error) {
	if e.state != models.StateOpen {
		return RoundResult{}, fmt.Errorf("%w: %s", ErrClosed, e.Position)
	}

	contenders := e.Contenders()
	if len(contenders) == 0 {
		return RoundResult{}, fmt.Errorf("%w: %s", ErrNoCandidates, e.Position)
	}

	if len(contenders) == 1 && e.isReferendum() {
		return e.tallyReferendum(contenders[0]), nil
	}

	if e.evaluator == nil {
		return RoundResult{}, ErrNoEvaluator
	}
	elected, err := e.evaluator.Evaluate(slices.Clone(e.candidates), e.ballots, e.Seats)
	if err != nil {
		return RoundResult{}, fmt.Errorf("evaluate %s: %w", e.Position, err)
	}

	result := RoundResult{
		Contenders: len(contenders),
		Overflow:   len(elected) > e.Seats,
	}
	for _, c := range elected {
		if e.IsWinner(c.Name) {
			continue
		}
		result.Wins = append(result.Wins, Win{Candidate: c, Rank: c.Rank(e.Position)})
	}

	e.logger.Debug("round tabulated",
		"position", e.Position, "contenders", len(contenders), "wins", winNames(result.Wins))
	return result, nil
}

// isReferendum reports whether every ballot entry is an approve/reject choice
func (e *PositionElection) isReferendum() bool {
	if len(e.ballots) == 0 {
		return false
	}
	for _, b := range e.ballots {
		for _, c := range b.Ranked {
			if !c.IsMeta() {
				return false
			}
		}
	}
	return true
}

func (e *PositionElection) tallyReferendum(sole *models.Candidate) RoundResult {
	tracker := 0
	for _, b := range e.ballots {
		top := b.Top()
		if top == nil {
			continue
		}
		switch top.Name {
		case models.ApproveName:
			tracker++
		case models.RejectName:
			tracker--
		}
	}

	result := RoundResult{Contenders: 1, Referendum: true, Tally: tracker}
	if tracker < 0 {
		result.NoResult = true
		e.logger.Info("referendum rejected", "position", e.Position, "candidate", sole.Name, "tally", tracker)
		return result
	}
	result.Wins = []Win{{Candidate: sole, Rank: sole.Rank(e.Position)}}
	e.logger.Info("referendum approved", "position", e.Position, "candidate", sole.Name, "tally", tracker)
	return result
}

// RemoveCandidate drops name from the pool and every ballot. Absent names are
// ignored. It does not re-tally.
func (e *PositionElection) RemoveCandidate(name string) bool {
	i := slices.IndexFunc(e.candidates, func(c *models.Candidate) bool { return c.Name == name })
	if i < 0 {
		return false
	}
	e.candidates = slices.Delete(e.candidates, i, i+1)
	for _, b := range e.ballots {
		b.Remove(name)
	}
	e.logger.Info("candidate removed", "candidate", name, "position", e.Position)
	return true
}

// HasCandidate reports whether name is still in the pool
func (e *PositionElection) HasCandidate(name string) bool {
	return slices.ContainsFunc(e.candidates, func(c *models.Candidate) bool { return c.Name == name })
}

// AddWinner records a finalized winner
func (e *PositionElection) AddWinner(c *models.Candidate) {
	e.winners = append(e.winners, c)
}

// IsWinner reports whether name is already finalized here
func (e *PositionElection) IsWinner(name string) bool {
	return slices.ContainsFunc(e.winners, func(c *models.Candidate) bool { return c.Name == name })
}

// OpenSeats is the number of seats not yet finalized
func (e *PositionElection) OpenSeats() int {
	return e.Seats - len(e.winners)
}

// Overfilled reports more finalized winners than seats
func (e *PositionElection) Overfilled() bool {
	return len(e.winners) > e.Seats
}

// Contenders is the pool minus finalized winners
func (e *PositionElection) Contenders() []*models.Candidate {
	out := make([]*models.Candidate, 0, len(e.candidates))
	for _, c := range e.candidates {
		if !e.IsWinner(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// Close moves an open election to a terminal state. Closing twice is a no-op
// that keeps the first state.
func (e *PositionElection) Close(state string) {
	if e.state != models.StateOpen {
		return
	}
	e.state = state
	e.logger.Info("election closed", "position", e.Position, "state", state, "winners", len(e.winners), "seats", e.Seats)
}

// Satisfied reports whether every seat has a finalized winner
func (e *PositionElection) Satisfied() bool {
	return len(e.winners) >= e.Seats
}

func (e *PositionElection) State() string {
	return e.state
}

func (e *PositionElection) IsOpen() bool {
	return e.state == models.StateOpen
}

func (e *PositionElection) Winners() []*models.Candidate {
	return slices.Clone(e.winners)
}

func (e *PositionElection) Candidates() []*models.Candidate {
	return slices.Clone(e.candidates)
}

// Original is the starting pool, kept for diagnostics
func (e *PositionElection) Original() []*models.Candidate {
	return slices.Clone(e.original)
}

func (e *PositionElection) Ballots() []*models.Ballot {
	return e.ballots
}

func (e *PositionElection) String() string {
	return fmt.Sprintf("===Election for %s===\nCandidates: %v\n%d Ballots", e.Position, Names(e.candidates), len(e.ballots))
}

// Names lists candidate names in order
func Names(cands []*models.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Name
	}
	return out
}

func winNames(wins []Win) []string {
	out := make([]string, len(wins))
	for i, w := range wins {
		out[i] = w.Candidate.Name
	}
	return out
}
