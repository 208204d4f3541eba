// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Atzphere/VOC-Elections/election"
	"github.com/Atzphere/VOC-Elections/models"
	"github.com/Atzphere/VOC-Elections/registry"
)

// DefaultMaxRank is the constitutional cap on ranked positions per candidate
const DefaultMaxRank = 3

var (
	ErrNoRegistry        = errors.New("registry is required")
	ErrDuplicatePosition = errors.New("duplicate position")
	ErrInvalidMaxRank    = errors.New("max rank must be at least 1")
	ErrAlreadyRun        = errors.New("engine has already run")
)

// Winner is a finalized assignment of a candidate to a position
type Winner struct {
	Candidate *models.Candidate
	Position  string
	Rank      int
	Round     int
	Threshold int
}

// Problem is a per-position condition needing manual review
type Problem struct {
	Kind       string
	Position   string
	Round      int
	Detail     string
	Candidates []string
}

// Outcome is the final state of one position
type Outcome struct {
	Position string
	Seats    int
	State    string
	Winners  []Winner
	Original []string
}

// RoundTrace records the shape of one round
type RoundTrace struct {
	Round     int
	Threshold int
	Open      int // open elections when the round started
	Claims    int
	Finalized int
}

type Result struct {
	Outcomes []Outcome
	Problems []Problem
	Trace    []RoundTrace
	Rounds   int
	MaxRank  int
}

// Outcome looks up a position's outcome
func (r *Result) Outcome(position string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Position == position {
			return o, true
		}
	}
	return Outcome{}, false
}

// PositionsOf lists every position name won
func (r *Result) PositionsOf(name string) []string {
	var out []string
	for _, o := range r.Outcomes {
		for _, w := range o.Winners {
			if w.Candidate.Name == name {
				out = append(out, o.Position)
			}
		}
	}
	return out
}

// Engine reconciles independently tabulated positions into one assignment.
// It mutates the elections and is good for a single Run.
type Engine struct {
	registry  *registry.Registry
	elections []*election.PositionElection
	open      []*election.PositionElection
	maxRank   int
	logger    *slog.Logger

	settled  map[string]string // candidate -> position won
	winners  map[*election.PositionElection][]Winner
	closing  map[*election.PositionElection]string
	problems []Problem
	trace    []RoundTrace
	round    int
	ran      bool
}

type Option func(*Engine)

func WithMaxRank(n int) Option {
	return func(e *Engine) { e.maxRank = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New validates the inputs and returns an engine over elections, which are
// processed in the given order.
func New(reg *registry.Registry, elections []*election.PositionElection, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	e := &Engine{
		registry:  reg,
		elections: elections,
		maxRank:   DefaultMaxRank,
		logger:    slog.Default(),
		settled:   make(map[string]string),
		winners:   make(map[*election.PositionElection][]Winner),
		closing:   make(map[*election.PositionElection]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxRank < 1 {
		return nil, ErrInvalidMaxRank
	}

	seen := make(map[string]struct{}, len(elections))
	for _, pe := range elections {
		if _, dup := seen[pe.Position]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePosition, pe.Position)
		}
		seen[pe.Position] = struct{}{}
		if pe.IsOpen() {
			e.open = append(e.open, pe)
		}
	}
	return e, nil
}

// Run raises the priority threshold from 1 to the cap, repeating rounds at
// each threshold until a round finalizes nobody. Elections still open after
// the cap are closed as exhausted.
func (e *Engine) Run() (*Result, error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true

	for threshold := 1; threshold <= e.maxRank && len(e.open) > 0; threshold++ {
		for len(e.open) > 0 {
			if !e.runRound(threshold) {
				break
			}
		}
		e.logger.Info("threshold converged", "threshold", threshold, "open", len(e.open))
	}
	e.closeUnresolved()

	return e.result(), nil
}

// runRound performs one full round and reports whether anyone was finalized
func (e *Engine) runRound(threshold int) bool {
	e.round++
	trace := RoundTrace{Round: e.round, Threshold: threshold, Open: len(e.open)}
	e.logger.Info("round started", "round", e.round, "threshold", threshold, "open", len(e.open))

	cycle := newCycleMap()
	for _, pe := range e.open {
		rr, err := pe.ComputeRoundWinners()
		if err != nil {
			e.fail(pe, err)
			continue
		}
		if rr.NoResult {
			e.closing[pe] = models.StateRejected
			continue
		}
		for _, w := range rr.Wins {
			cycle.add(w.Candidate, stake{
				election:   pe,
				rank:       w.Rank,
				contenders: rr.Contenders,
				overflow:   rr.Overflow,
			})
		}
	}
	trace.Claims = len(cycle.order)

	for _, cl := range cycle.ordered() {
		if e.blocked(cl.candidate) {
			e.logger.Info("candidate skipped, joint unit already settled",
				"candidate", cl.candidate.Name, "positions", cl.positions())
			continue
		}
		s, ok := decide(threshold, cl)
		if !ok {
			e.logger.Info("candidate deferred",
				"candidate", cl.candidate.Name, "positions", cl.positions(), "ranks", cl.ranks(), "threshold", threshold)
			continue
		}
		if !s.election.HasCandidate(cl.candidate.Name) {
			e.logger.Info("candidate skipped, evicted earlier this round",
				"candidate", cl.candidate.Name, "position", s.election.Position)
			continue
		}
		if s.election.OpenSeats() <= 0 && !s.overflow {
			e.logger.Info("candidate deferred, no open seat",
				"candidate", cl.candidate.Name, "position", s.election.Position)
			continue
		}
		e.finalize(cl.candidate, s, threshold)
		trace.Finalized++
	}

	e.sweep()
	e.trace = append(e.trace, trace)
	return trace.Finalized > 0
}

// blocked reports whether a candidate, or any person in its joint unit, already
// holds a seat
func (e *Engine) blocked(c *models.Candidate) bool {
	if _, ok := e.settled[c.Name]; ok {
		return true
	}
	for _, joint := range e.registry.JointsOf(c.Name) {
		if _, ok := e.settled[joint]; ok {
			return true
		}
	}
	for _, member := range c.Constituents {
		if _, ok := e.settled[member]; ok {
			return true
		}
		// another ticket sharing this member
		for _, joint := range e.registry.JointsOf(member) {
			if _, ok := e.settled[joint]; ok {
				return true
			}
		}
	}
	return false
}

func (e *Engine) finalize(c *models.Candidate, s stake, threshold int) {
	target := s.election
	target.AddWinner(c)
	e.settled[c.Name] = target.Position
	e.winners[target] = append(e.winners[target], Winner{
		Candidate: c,
		Position:  target.Position,
		Rank:      s.rank,
		Round:     e.round,
		Threshold: threshold,
	})
	e.logger.Info("candidate finalized",
		"candidate", c.Name, "position", target.Position, "rank", s.rank, "round", e.round, "threshold", threshold)

	for _, name := range e.evictionSet(c) {
		for _, pe := range e.open {
			if pe == target && name == c.Name {
				continue
			}
			pe.RemoveCandidate(name)
		}
	}
}

// evictionSet is the candidate, its constituents, and every joint ticket any
// of them belongs to
func (e *Engine) evictionSet(c *models.Candidate) []string {
	people := append([]string{c.Name}, c.Constituents...)
	out := slices.Clone(people)
	for _, name := range people {
		for _, joint := range e.registry.JointsOf(name) {
			if !slices.Contains(out, joint) {
				out = append(out, joint)
			}
		}
	}
	return out
}

func (e *Engine) fail(pe *election.PositionElection, err error) {
	kind := models.ProblemEvaluationFailed
	detail := err.Error()
	if errors.Is(err, election.ErrNoCandidates) {
		kind = models.ProblemExhausted
		detail = fmt.Sprintf("no candidates remaining with %d of %d seats filled", len(pe.Winners()), pe.Seats)
	}
	e.problem(Problem{
		Kind:       kind,
		Position:   pe.Position,
		Round:      e.round,
		Detail:     detail,
		Candidates: election.Names(pe.Original()),
	})
	e.closing[pe] = models.StateExhausted
}

// sweep closes satisfied and failed elections and rebuilds the open queue
func (e *Engine) sweep() {
	open := e.open[:0]
	for _, pe := range e.open {
		if state, ok := e.closing[pe]; ok {
			pe.Close(state)
			continue
		}
		if pe.Satisfied() {
			if pe.Overfilled() {
				e.problem(Problem{
					Kind:       models.ProblemOverfilled,
					Position:   pe.Position,
					Round:      e.round,
					Detail:     fmt.Sprintf("%d winners finalized for %d seats", len(pe.Winners()), pe.Seats),
					Candidates: election.Names(pe.Winners()),
				})
			}
			pe.Close(models.StateSatisfied)
			continue
		}
		open = append(open, pe)
	}
	e.open = open
}

func (e *Engine) closeUnresolved() {
	for _, pe := range e.open {
		e.problem(Problem{
			Kind:       models.ProblemExhausted,
			Position:   pe.Position,
			Round:      e.round,
			Detail:     fmt.Sprintf("unresolved after priority cap %d with %d of %d seats filled", e.maxRank, len(pe.Winners()), pe.Seats),
			Candidates: election.Names(pe.Original()),
		})
		pe.Close(models.StateExhausted)
	}
	e.open = nil
}

func (e *Engine) problem(p Problem) {
	e.logger.Warn("position problem", "kind", p.Kind, "position", p.Position, "detail", p.Detail)
	e.problems = append(e.problems, p)
}

func (e *Engine) result() *Result {
	res := &Result{
		Problems: e.problems,
		Trace:    e.trace,
		Rounds:   e.round,
		MaxRank:  e.maxRank,
	}
	for _, pe := range e.elections {
		res.Outcomes = append(res.Outcomes, Outcome{
			Position: pe.Position,
			Seats:    pe.Seats,
			State:    pe.State(),
			Winners:  e.winners[pe],
			Original: election.Names(pe.Original()),
		})
	}
	return res
}
