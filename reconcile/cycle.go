// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reconcile

import (
	"github.com/Atzphere/VOC-Elections/election"
	"github.com/Atzphere/VOC-Elections/models"
)

// stake is one election a candidate won in the current round
type stake struct {
	election   *election.PositionElection
	rank       int
	contenders int
	overflow   bool
}

// claim collects every election a candidate won in the current round
type claim struct {
	candidate *models.Candidate
	stakes    []stake
}

func (c *claim) ranks() []int {
	out := make([]int, len(c.stakes))
	for i, s := range c.stakes {
		out[i] = s.rank
	}
	return out
}

func (c *claim) positions() []string {
	out := make([]string, len(c.stakes))
	for i, s := range c.stakes {
		out[i] = s.election.Position
	}
	return out
}

// cycleMap merges round winners across elections, keeping first-appearance order
type cycleMap struct {
	order  []string
	claims map[string]*claim
}

func newCycleMap() *cycleMap {
	return &cycleMap{claims: make(map[string]*claim)}
}

func (m *cycleMap) add(c *models.Candidate, s stake) {
	cl, ok := m.claims[c.Name]
	if !ok {
		cl = &claim{candidate: c}
		m.claims[c.Name] = cl
		m.order = append(m.order, c.Name)
	}
	cl.stakes = append(cl.stakes, s)
}

// ordered returns joint tickets first so constituents defer to them, then
// individuals. Both groups keep first-appearance order.
func (m *cycleMap) ordered() []*claim {
	out := make([]*claim, 0, len(m.order))
	for _, name := range m.order {
		if cl := m.claims[name]; cl.candidate.Joint {
			out = append(out, cl)
		}
	}
	for _, name := range m.order {
		if cl := m.claims[name]; !cl.candidate.Joint {
			out = append(out, cl)
		}
	}
	return out
}

// decide picks the election to finalize a claim into at the given priority
// threshold. Rules apply in order: a single win; an election where the
// candidate is the last contender; the best-ranked win whose rank is within
// the threshold. Otherwise the claim is deferred.
func decide(threshold int, cl *claim) (stake, bool) {
	if len(cl.stakes) == 1 {
		return cl.stakes[0], true
	}
	if s, ok := bestRanked(cl.stakes, func(s stake) bool { return s.contenders == 1 }); ok {
		return s, true
	}
	if s, ok := bestRanked(cl.stakes, func(s stake) bool { return s.rank > 0 && s.rank <= threshold }); ok {
		return s, true
	}
	return stake{}, false
}

// bestRanked returns the kept stake with the lowest positive rank. Unranked
// stakes sort last; ties keep the earlier stake.
func bestRanked(stakes []stake, keep func(stake) bool) (stake, bool) {
	var best stake
	found := false
	for _, s := range stakes {
		if !keep(s) {
			continue
		}
		if !found || rankBefore(s.rank, best.rank) {
			best = s
			found = true
		}
	}
	return best, found
}

func rankBefore(a, b int) bool {
	switch {
	case a == 0:
		return false
	case b == 0:
		return true
	default:
		return a < b
	}
}
