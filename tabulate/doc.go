// Copyright (c) 2025 Atzphere.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tabulate provides the ranked-choice evaluators consumed by package
election.

# Preferential Block Voting

	winners, err := tabulate.PreferentialBlockVoting{}.Evaluate(pool, ballots, seats)

Each ballot gives one vote to each of its top seats standing choices. The
candidate with the fewest votes is eliminated and the count repeats until
seats candidates remain. With one seat this is instant-runoff voting.

Ties are broken by pool order: the later candidate is eliminated first and
ranks lower among the winners, so identical input always yields identical
output.

# Methods

ForMethod maps the configured method name to an evaluator:

	eval, err := tabulate.ForMethod("pbv")
*/
package tabulate
