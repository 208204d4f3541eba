// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Atzphere/VOC-Elections/models"
)

// MaxJointsPerCandidate bounds how many joint tickets one person may belong to
const MaxJointsPerCandidate = 3

var (
	ErrDuplicateCandidate = errors.New("candidate already registered")
	ErrUnknownCandidate   = errors.New("unknown candidate")
	ErrEmptyName          = errors.New("candidate name is empty")
	ErrTooManyJoints      = errors.New("candidate is on too many joint tickets")
	ErrNoConstituents     = errors.New("joint ticket has no registered constituents")
)

// Registry is the canonical, insertion-ordered set of candidates.
// Joint membership is kept as a one-way table from constituent to joints.
type Registry struct {
	order    []string
	byName   map[string]*models.Candidate
	jointsOf map[string][]string
	logger   *slog.Logger
}

// New returns a registry seeded with the referendum meta choices
func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byName:   make(map[string]*models.Candidate),
		jointsOf: make(map[string][]string),
		logger:   logger,
	}
	for _, name := range []string{models.ApproveName, models.RejectName} {
		r.order = append(r.order, name)
		r.byName[name] = &models.Candidate{
			Name:      name,
			Positions: []string{models.MetaPosition},
			Info:      models.NewInfo(nil, true, nil),
		}
	}
	return r
}

// Add registers a candidate. Duplicate positions are collapsed, keeping the
// first occurrence.
func (r *Registry) Add(c *models.Candidate) error {
	if c == nil || c.Name == "" {
		return ErrEmptyName
	}
	if _, exists := r.byName[c.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCandidate, c.Name)
	}
	c.Positions = dedupe(c.Positions)
	r.order = append(r.order, c.Name)
	r.byName[c.Name] = c
	return nil
}

// Replace overwrites the positions and info of an existing candidate,
// keeping its place in the insertion order.
func (r *Registry) Replace(c *models.Candidate) error {
	existing, ok := r.byName[c.Name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCandidate, c.Name)
	}
	existing.Positions = dedupe(c.Positions)
	existing.Info = c.Info
	return nil
}

// AddJoint builds a joint candidate from registered constituents. The shared
// positions are removed from each constituent's own list so the individual
// candidacies for them become inert. Unregistered constituents are skipped
// with a warning.
func (r *Registry) AddJoint(t models.JointTicket) (*models.Candidate, error) {
	if t.Name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := r.byName[t.Name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateCandidate, t.Name)
	}

	var members []*models.Candidate
	for _, name := range t.Candidates {
		c, ok := r.byName[name]
		if !ok {
			r.logger.Warn("joint constituent not registered",
				"joint", t.Name, "candidate", name)
			continue
		}
		if len(r.jointsOf[name]) >= MaxJointsPerCandidate {
			return nil, fmt.Errorf("%w: %s", ErrTooManyJoints, name)
		}
		members = append(members, c)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoConstituents, t.Name)
	}

	var emails []string
	var terms []int
	constituents := make([]string, 0, len(members))
	for _, c := range members {
		c.Positions = slices.DeleteFunc(c.Positions, func(p string) bool {
			return slices.Contains(t.Positions, p)
		})
		emails = append(emails, c.Info.Emails...)
		for _, term := range c.Info.AvailableTerms {
			if !slices.Contains(terms, term) {
				terms = append(terms, term)
			}
		}
		constituents = append(constituents, c.Name)
	}
	slices.Sort(terms)

	joint := &models.Candidate{
		Name:         t.Name,
		Positions:    dedupe(append([]string(nil), t.Positions...)),
		Info:         models.NewInfo(emails, true, terms),
		Joint:        true,
		Constituents: constituents,
	}
	r.order = append(r.order, joint.Name)
	r.byName[joint.Name] = joint
	for _, name := range constituents {
		r.jointsOf[name] = append(r.jointsOf[name], joint.Name)
	}

	r.logger.Info("joint ticket registered",
		"joint", joint.Name, "constituents", constituents, "positions", joint.Positions)
	return joint, nil
}

// Get looks up a candidate by name
func (r *Registry) Get(name string) (*models.Candidate, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Len counts registered candidates, including the meta choices
func (r *Registry) Len() int {
	return len(r.order)
}

// Candidates returns every candidate in insertion order
func (r *Registry) Candidates() []*models.Candidate {
	out := make([]*models.Candidate, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// ForPosition returns the candidates contending for position, in insertion order
func (r *Registry) ForPosition(position string) []*models.Candidate {
	var out []*models.Candidate
	for _, name := range r.order {
		c := r.byName[name]
		if c.IsMeta() {
			continue
		}
		if c.Contends(position) {
			out = append(out, c)
		}
	}
	return out
}

// Positions returns every contended position in first-seen order
func (r *Registry) Positions() []string {
	var out []string
	for _, name := range r.order {
		c := r.byName[name]
		if c.IsMeta() {
			continue
		}
		for _, p := range c.Positions {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	return out
}

// JointsOf returns the names of the joint tickets name belongs to
func (r *Registry) JointsOf(name string) []string {
	return slices.Clone(r.jointsOf[name])
}

// BuildBallot resolves names into a validated ballot
func (r *Registry) BuildBallot(names []string) (*models.Ballot, error) {
	ranked := make([]*models.Candidate, 0, len(names))
	for _, name := range names {
		c, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCandidate, name)
		}
		ranked = append(ranked, c)
	}
	return models.NewBallot(ranked)
}

func dedupe(positions []string) []string {
	out := positions[:0:0]
	for _, p := range positions {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}
