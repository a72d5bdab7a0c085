// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

import "gonum.org/v1/gonum/floats/scalar"

// ScorePrecision is the number of decimal places scores are compared at
const ScorePrecision = 5

// RoundScore rounds a raw score to ScorePrecision decimal places
func RoundScore(score float64) float64 {
	return scalar.Round(score, ScorePrecision)
}

// Score computes each remaining candidate's weighted approval total for
// the current round. Every remaining candidate is present in the result,
// with 0 when nobody still approves of it.
func Score(remaining map[string]struct{}, ballots Ballots, weights map[string]int) map[string]float64 {
	scores := make(map[string]float64, len(remaining))
	for c := range remaining {
		scores[c] = 0
	}

	// Fixed voter order keeps float accumulation reproducible
	for _, voter := range ballots.VoterIDs() {
		k := weights[voter]
		if k < 1 {
			k = 1
		}
		share := 1 / float64(k)
		for c := range ballots[voter] {
			if _, ok := remaining[c]; ok {
				scores[c] += share
			}
		}
	}

	return scores
}
