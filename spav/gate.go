// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

// GracePeriod is the number of seats filled before the gate can activate
const GracePeriod = 4

// MustRestrict reports whether the next round is limited to female
// candidates: admitting one more male would give males a strict majority
// of the seats filled so far.
func MustRestrict(seated []string, reg Registry) bool {
	if len(seated) < GracePeriod {
		return false
	}

	var females, males int
	for _, id := range seated {
		switch reg[id].Gender {
		case Female:
			females++
		case Male:
			males++
		}
	}

	return males+1 > females
}
