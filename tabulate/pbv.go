// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tabulate

import (
	"sort"

	"github.com/Atzphere/VOC-Elections/models"
)

// tally is the running vote count for one candidate
type tally struct {
	candidate *models.Candidate
	votes     int
	order     int // position in the pool, used for stable tie-breaking
}

// PreferentialBlockVoting elects seats candidates by repeated elimination.
// Every ballot gives one vote to each of its top seats still-standing
// choices; the candidate with the fewest votes is eliminated until only
// seats remain. Ties eliminate the candidate latest in pool order.
type PreferentialBlockVoting struct{}

func (PreferentialBlockVoting) Evaluate(candidates []*models.Candidate, ballots []*models.Ballot, seats int) ([]*models.Candidate, error) {
	if seats < 1 {
		seats = 1
	}

	standing := make(map[string]*tally, len(candidates))
	for i, c := range candidates {
		standing[c.Name] = &tally{candidate: c, order: i}
	}

	for len(standing) > seats {
		count(standing, ballots, seats)
		loser := lowest(standing)
		delete(standing, loser.candidate.Name)
	}
	count(standing, ballots, seats)

	return ranked(standing), nil
}

// count recomputes votes for standing candidates
func count(standing map[string]*tally, ballots []*models.Ballot, seats int) {
	for _, t := range standing {
		t.votes = 0
	}
	for _, b := range ballots {
		given := 0
		for _, c := range b.Ranked {
			if given == seats {
				break
			}
			if t, ok := standing[c.Name]; ok {
				t.votes++
				given++
			}
		}
	}
}

func lowest(standing map[string]*tally) *tally {
	var loser *tally
	for _, t := range standing {
		if loser == nil ||
			t.votes < loser.votes ||
			(t.votes == loser.votes && t.order > loser.order) {
			loser = t
		}
	}
	return loser
}

// ranked orders the remaining candidates by votes, then pool order
func ranked(standing map[string]*tally) []*models.Candidate {
	tallies := make([]*tally, 0, len(standing))
	for _, t := range standing {
		tallies = append(tallies, t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		a, b := tallies[i], tallies[j]

		// 1. More votes wins
		if a.votes != b.votes {
			return a.votes > b.votes
		}

		// 2. Stable tie-breaking by pool order
		return a.order < b.order
	})

	out := make([]*models.Candidate, len(tallies))
	for i, t := range tallies {
		out[i] = t.candidate
	}
	return out
}
