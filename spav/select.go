// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

import "sort"

// Selection is the outcome of picking one round's winner
type Selection struct {
	Winner string
	Score  float64
	// Tied lists every candidate that shared the top score, in tie-break order.
	// Empty when the winner was unique.
	Tied []string
	// Exhausted is set when the gate left no eligible candidate
	Exhausted bool
}

// Select picks the round winner from raw scores. When restrict is set only
// female candidates are eligible. Scores are compared after rounding; ties
// go to the smallest display name, then the smallest id.
func Select(scores map[string]float64, restrict bool, reg Registry) Selection {
	eligible := make([]string, 0, len(scores))
	for id := range scores {
		if restrict && reg[id].Gender != Female {
			continue
		}
		eligible = append(eligible, id)
	}

	if len(eligible) == 0 {
		return Selection{Exhausted: true}
	}

	best := RoundScore(scores[eligible[0]])
	for _, id := range eligible[1:] {
		if s := RoundScore(scores[id]); s > best {
			best = s
		}
	}

	var top []string
	for _, id := range eligible {
		if RoundScore(scores[id]) == best {
			top = append(top, id)
		}
	}

	sort.Slice(top, func(i, j int) bool {
		a, b := reg[top[i]], reg[top[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return top[i] < top[j]
	})

	sel := Selection{Winner: top[0], Score: best}
	if len(top) > 1 {
		sel.Tied = top
	}
	return sel
}
