// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

// ApplyWin removes the winner from every ballot that approved it and bumps
// those voters' inverse-weight by one. Other voters are untouched.
func ApplyWin(winner string, ballots Ballots, weights map[string]int) {
	for voter, set := range ballots {
		if !set.Has(winner) {
			continue
		}
		delete(set, winner)
		if weights[voter] < 1 {
			weights[voter] = 1
		}
		weights[voter]++
	}
}
