// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry holds the canonical set of candidates for an election run.

Candidates are kept in insertion order; every ordered query (Candidates,
ForPosition, Positions) follows it so reconciliation is reproducible.

# Joint Tickets

AddJoint turns two or more registered candidates into one electable unit:

	joint, err := reg.AddJoint(models.JointTicket{
		Name:       "Zac Wirth and Allen Zhao",
		Candidates: []string{"Zac Wirth", "Allen Zhao"},
		Positions:  []string{"Trips Coordinator"},
	})

The shared positions are removed from each constituent, and the registry
records constituent → joint in a lookup table (JointsOf). The joint never
owns its constituents; it lists their names.

# Ballots

BuildBallot resolves voter choices by name:

	ballot, err := reg.BuildBallot([]string{"Jared", "Bob"})

It fails with ErrUnknownCandidate for unregistered names and with
models.ErrDuplicateCandidates for repeats. The meta choices "Yes" and "No"
are always registered for referendum ballots.
*/
package registry
