// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ingest reads the nominee and voting form exports into a candidate
registry and per-position ballots.

# Nominee Form

Each row from CandidateStartRow on is one application:

  - "Survey Preview" rows are discarded
  - rows with no roles are discarded and logged
  - positions beyond MaxPositions are dropped, then Renames applied
  - "Term 1,Term 2" becomes [1 2]; student status "Yes" makes the nominee eligible

A repeated applicant replaces the earlier application. The differences are
logged.

# Voting Form

Rows before VotingStartRow are headers. When FinishedColumn is set, rows that
do not read TRUE there are rejected. Each position column holds a
comma-separated ranking; a cell containing the abstain marker, or an empty
cell, casts no ballot for that position. Names not in the registry fail the
whole read.

# Declared Candidacies

Declare registers referendum items and joint tickets from the Config. Load
calls it between the two reads so joint names can appear on ballots:

	reg, ballots, err := ingest.Load("nominees.csv", "ballots.csv", cfg, logger)
*/
package ingest
