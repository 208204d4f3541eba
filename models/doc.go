// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines domain and report types shared across packages.

# Domain Types

  - Candidate: a person or joint ticket with positions in priority order
  - Info: contact emails, student status, available terms, eligibility
  - JointTicket: declaration of candidates running together
  - Ballot: one voter's ranked choices for one position

Candidate.Rank returns the 1-based preference rank of a position:

	rank := c.Rank("Treasurer") // 0 when not listed

NewBallot rejects repeated or nil entries:

	b, err := models.NewBallot(ranked) // ErrDuplicateCandidates, ErrInvalidCandidate

# Report Types

Types for JSON output and storage:

  - RunReport: one reconciliation run with positions and problems
  - PositionReport: seats, filled count, state, winners
  - WinnerReport: name, emails, rank, round, threshold
  - ProblemReport: kind, position, detail
  - RunSummary: list entry for stored runs
  - ErrorResponse: error, message

# Constants

Referendum meta choices:

	ApproveName = "Yes"
	RejectName  = "No"

Election states:

	StateOpen      = "open"
	StateSatisfied = "satisfied"
	StateExhausted = "exhausted"
	StateRejected  = "rejected"

Problem kinds:

	ProblemExhausted        = "exhausted"
	ProblemOverfilled       = "overfilled"
	ProblemEvaluationFailed = "evaluation_failed"
*/
package models
