// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

import "sort"

// Gender categories recognised by the diversity gate
type Gender string

const (
	Female Gender = "f"
	Male   Gender = "m"
)

// Valid reports whether g is one of the two known categories
func (g Gender) Valid() bool {
	return g == Female || g == Male
}

// Candidate is an immutable registry entry
type Candidate struct {
	ID     string `json:"id" yaml:"id"`
	Gender Gender `json:"gender" yaml:"gender"`
	Name   string `json:"name" yaml:"name"`
}

// Registry maps candidate id to candidate. It is never mutated by an election.
type Registry map[string]Candidate

// IDs returns the registry's candidate ids in ascending order
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Approvals is the set of candidate ids a voter approves of
type Approvals map[string]struct{}

// Has reports whether the set contains candidateID
func (a Approvals) Has(candidateID string) bool {
	_, ok := a[candidateID]
	return ok
}

// Ballots maps voter id to that voter's approval set
type Ballots map[string]Approvals

// Approve records an approval, collapsing duplicates
func (b Ballots) Approve(voterID, candidateID string) {
	set, ok := b[voterID]
	if !ok {
		set = make(Approvals)
		b[voterID] = set
	}
	set[candidateID] = struct{}{}
}

// Voter registers a voter with no approvals. Re-registering is a no-op.
func (b Ballots) Voter(voterID string) {
	if _, ok := b[voterID]; !ok {
		b[voterID] = make(Approvals)
	}
}

// VoterIDs returns voter ids in ascending order
func (b Ballots) VoterIDs() []string {
	ids := make([]string, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// clone deep-copies the pool so the election can mutate it freely
func (b Ballots) clone() Ballots {
	out := make(Ballots, len(b))
	for voter, set := range b {
		cp := make(Approvals, len(set))
		for c := range set {
			cp[c] = struct{}{}
		}
		out[voter] = cp
	}
	return out
}

// SeatKind tags a seat in the result sequence
type SeatKind int

const (
	SeatWinner SeatKind = iota
	SeatUnfilled
)

func (k SeatKind) String() string {
	if k == SeatUnfilled {
		return "unfilled"
	}
	return "winner"
}

// Seat is one slot of the result sequence: either a winner with the
// rounded score it won with, or an unfilled seat.
type Seat struct {
	Kind        SeatKind
	CandidateID string
	Score       float64
}

// Winner builds a filled seat
func Winner(candidateID string, score float64) Seat {
	return Seat{Kind: SeatWinner, CandidateID: candidateID, Score: score}
}

// Unfilled builds an unfilled seat
func Unfilled() Seat {
	return Seat{Kind: SeatUnfilled}
}

// Filled reports whether the seat holds a candidate
func (s Seat) Filled() bool {
	return s.Kind == SeatWinner
}

// Round records what happened in one round of the election
type Round struct {
	Number     int                `json:"number" yaml:"number"`
	Restricted bool               `json:"restricted" yaml:"restricted"`
	Scores     map[string]float64 `json:"scores" yaml:"scores"`
	Tied       []string           `json:"tied,omitempty" yaml:"tied,omitempty"`
	Winner     string             `json:"winner,omitempty" yaml:"winner,omitempty"`
	Exhausted  bool               `json:"exhausted,omitempty" yaml:"exhausted,omitempty"`
}

// Ranking is one visible line of an election outcome
type Ranking struct {
	Rank        int     `json:"rank" yaml:"rank"`
	CandidateID string  `json:"candidate_id" yaml:"candidate_id"`
	Name        string  `json:"name" yaml:"name"`
	Gender      Gender  `json:"gender" yaml:"gender"`
	Score       float64 `json:"score" yaml:"score"`
}

// Result is the terminal state of an election
type Result struct {
	// Seats has one entry per registry candidate, in election order
	Seats  []Seat
	Rounds []Round
}

// Winners returns the filled seats in order
func (r Result) Winners() []Seat {
	out := make([]Seat, 0, len(r.Seats))
	for _, s := range r.Seats {
		if s.Filled() {
			out = append(out, s)
		}
	}
	return out
}

// UnfilledCount returns the number of seats the gate left empty
func (r Result) UnfilledCount() int {
	return len(r.Seats) - len(r.Winners())
}

// Rankings resolves winners against the registry, ranked from 1
func (r Result) Rankings(reg Registry) []Ranking {
	winners := r.Winners()
	out := make([]Ranking, len(winners))
	for i, s := range winners {
		c := reg[s.CandidateID]
		out[i] = Ranking{
			Rank:        i + 1,
			CandidateID: s.CandidateID,
			Name:        c.Name,
			Gender:      c.Gender,
			Score:       s.Score,
		}
	}
	return out
}
