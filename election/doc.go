// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package election wraps a single position's election.

A PositionElection owns the position's candidate pool, its ballots, the seat
count, and the winners finalized so far. The pool and ballots only shrink:
RemoveCandidate drops a candidate from both.

# Rounds

ComputeRoundWinners runs one tabulation over the current pool:

	result, err := e.ComputeRoundWinners()
	if errors.Is(err, election.ErrNoCandidates) {
		// close as exhausted
	}

Contested positions are delegated to an Evaluator (see package tabulate for
the default). Each returned Win carries the winner's 1-based preference rank
for this position.

A position whose every ballot entry is "Yes" or "No", with one contender, is a
referendum: approvals minus rejections must be non-negative for the contender
to win. A rejected referendum sets RoundResult.NoResult.

# States

	open → satisfied   seats filled
	open → exhausted   no contenders left, or unresolved at the rank cap
	open → rejected    referendum failed

Closed elections never reopen.
*/
package election
