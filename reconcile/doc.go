// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reconcile assigns winners across simultaneous position elections so
that nobody holds more than one position.

# Algorithm

The engine keeps a queue of open elections and a priority threshold that runs
from 1 to the rank cap (DefaultMaxRank = 3). At each threshold it repeats
rounds until a round finalizes nobody:

 1. every open election computes its round winners
 2. wins are merged into a cycle map: candidate → elections won this round
 3. each candidate is decided (joint tickets before individuals):
    one win finalizes it; being the last contender of an election finalizes
    that election; otherwise the best-ranked win within the threshold is
    finalized; anything else is deferred to a later round or threshold
 4. a finalized candidate, its constituents, and every joint ticket they
    belong to are evicted from all other open elections
 5. satisfied, exhausted and rejected elections close

Elections still open once the threshold passes the cap are closed as
exhausted and logged as problems.

# Usage

	eng, err := reconcile.New(reg, elections, reconcile.WithMaxRank(3))
	if err != nil {
		return err
	}
	result, err := eng.Run()

# Problems

Per-position conditions never abort the run. They are recorded in
Result.Problems:

  - exhausted: no candidates remained, or unresolved at the cap
  - overfilled: more winners finalized than seats (evaluator tie overflow)
  - evaluation_failed: the evaluator returned an error
*/
package reconcile
