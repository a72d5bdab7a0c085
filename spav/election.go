// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spav

import (
	"io"
	"log/slog"
)

// Options configures an Election
type Options struct {
	// Logger receives the per-round trace when Verbose is set.
	// Defaults to slog.Default().
	Logger  *slog.Logger
	Verbose bool
}

// Election owns the mutable state of one dSPAV count
type Election struct {
	reg       Registry
	ballots   Ballots
	weights   map[string]int
	remaining map[string]struct{}
	log       *slog.Logger
	result    *Result
}

// New prepares an election. The ballots are copied; the caller's pool is
// never modified.
func New(reg Registry, ballots Ballots, opts Options) *Election {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !opts.Verbose {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Election{
		reg:       reg,
		ballots:   ballots.clone(),
		weights:   make(map[string]int, len(ballots)),
		remaining: make(map[string]struct{}, len(reg)),
		log:       logger,
	}
	for voter := range e.ballots {
		e.weights[voter] = 1
	}
	for id := range reg {
		e.remaining[id] = struct{}{}
	}
	return e
}

// Run counts one seat per registry candidate. If the gate can no longer be
// satisfied, every seat still open is marked unfilled in that same round.
func Run(reg Registry, ballots Ballots, opts Options) Result {
	return New(reg, ballots, opts).Run()
}

// Run drives the round loop to its terminal state. The count happens once;
// later calls return the first result.
func (e *Election) Run() Result {
	if e.result != nil {
		return *e.result
	}

	total := len(e.reg)
	seats := make([]Seat, 0, total)
	seated := make([]string, 0, total)
	var rounds []Round

	for len(seats) < total {
		number := len(seats) + 1
		restrict := MustRestrict(seated, e.reg)
		scores := Score(e.remaining, e.ballots, e.weights)
		sel := Select(scores, restrict, e.reg)

		round := Round{
			Number:     number,
			Restricted: restrict,
			Scores:     roundAll(scores),
			Tied:       sel.Tied,
			Exhausted:  sel.Exhausted,
		}

		e.log.Info("round", "number", number, "restricted", restrict, "scores", round.Scores)

		if sel.Exhausted {
			e.log.Info("no eligible candidate, remaining seats unfilled",
				"round", number, "unfilled", total-len(seats))
			for len(seats) < total {
				seats = append(seats, Unfilled())
			}
			rounds = append(rounds, round)
			break
		}

		if len(sel.Tied) > 0 {
			names := make(map[string]string, len(sel.Tied))
			for _, id := range sel.Tied {
				names[id] = e.reg[id].Name
			}
			e.log.Info("tie", "round", number, "candidates", names)
		}
		e.log.Info("winner", "round", number, "candidate_id", sel.Winner, "score", sel.Score)

		round.Winner = sel.Winner
		rounds = append(rounds, round)

		seats = append(seats, Winner(sel.Winner, sel.Score))
		seated = append(seated, sel.Winner)
		delete(e.remaining, sel.Winner)
		ApplyWin(sel.Winner, e.ballots, e.weights)
	}

	e.result = &Result{Seats: seats, Rounds: rounds}
	return *e.result
}

// Weight returns a voter's current inverse-weight
func (e *Election) Weight(voterID string) int {
	return e.weights[voterID]
}

func roundAll(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for id, s := range scores {
		out[id] = RoundScore(s)
	}
	return out
}
