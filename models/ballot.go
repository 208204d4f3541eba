// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateCandidates = errors.New("ballot ranks a candidate more than once")
	ErrInvalidCandidate    = errors.New("ballot entry is not a candidate")
)

// Ballot is one voter's ranked choices for a single position
type Ballot struct {
	Ranked []*Candidate
}

// NewBallot validates and copies the ranked list
func NewBallot(ranked []*Candidate) (*Ballot, error) {
	seen := make(map[string]struct{}, len(ranked))
	for _, c := range ranked {
		if c == nil || c.Name == "" {
			return nil, ErrInvalidCandidate
		}
		if _, dup := seen[c.Name]; dup {
			return nil, ErrDuplicateCandidates
		}
		seen[c.Name] = struct{}{}
	}

	return &Ballot{Ranked: append([]*Candidate(nil), ranked...)}, nil
}

// Remove drops a candidate from the ranking, reporting whether it was present
func (b *Ballot) Remove(name string) bool {
	for i, c := range b.Ranked {
		if c.Name == name {
			b.Ranked = append(b.Ranked[:i], b.Ranked[i+1:]...)
			return true
		}
	}
	return false
}

// Top returns the first-ranked candidate, or nil for an exhausted ballot
func (b *Ballot) Top() *Candidate {
	if len(b.Ranked) == 0 {
		return nil
	}
	return b.Ranked[0]
}

func (b *Ballot) String() string {
	names := make([]string, len(b.Ranked))
	for i, c := range b.Ranked {
		names[i] = c.Name
	}
	return "<Ballot(" + strings.Join(names, ", ") + ")>"
}
