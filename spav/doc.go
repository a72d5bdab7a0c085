// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package spav computes diversity-aware Sequential Proportional Approval
Voting (dSPAV) results.

# Algorithm

One candidate is elected per round until every candidate has a seat:

  - Gate: after the first GracePeriod (4) seats, if admitting one more male
    would give males a strict majority of the seats so far, only female
    candidates are eligible this round.
  - Score: each remaining candidate receives 1/k from every voter still
    approving it, where k is that voter's inverse-weight.
  - Select: highest score wins, compared at 5 decimal places. Ties go to
    the smallest display name, then the smallest candidate id.
  - Reweight: the winner is removed from every ballot, and every voter who
    approved it has k incremented.

If the gate is active and no female candidate remains, every remaining seat
is marked unfilled and the count stops.

# Usage

	reg := spav.Registry{
		"c1": {ID: "c1", Gender: spav.Female, Name: "Alice"},
		"c2": {ID: "c2", Gender: spav.Male, Name: "Bob"},
	}
	ballots := spav.Ballots{}
	ballots.Approve("v1", "c1")

	result := spav.Run(reg, ballots, spav.Options{Logger: logger, Verbose: true})
	for _, r := range result.Rankings(reg) {
		fmt.Printf("%2d %s\n", r.Rank, r.Name)
	}

# Determinism

Identical inputs give identical seats and scores. Voters are always
accumulated in sorted id order, so floating point sums do not depend on
map iteration.
*/
package spav
