// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/spav"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx
type Queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

// Tally is the outcome of counting one election
type Tally struct {
	Rankings      []models.CandidateResult
	UnfilledSeats int
	Rounds        []spav.Round
	InputsHash    string
	BallotCount   int
}

// ComputeSPAVRankings loads an election's candidates and approval ballots
// and counts them with diversity-aware SPAV
func ComputeSPAVRankings(q Queryer, electionID string, opts spav.Options) (Tally, error) {
	reg, err := loadRegistry(q, electionID)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to load candidates: %w", err)
	}

	ballots, err := loadBallots(q, electionID)
	if err != nil {
		return Tally{}, fmt.Errorf("failed to load ballots: %w", err)
	}

	result := spav.Run(reg, ballots, opts)

	rankings := result.Rankings(reg)
	results := make([]models.CandidateResult, len(rankings))
	for i, r := range rankings {
		results[i] = models.CandidateResult{
			CandidateID: r.CandidateID,
			Name:        r.Name,
			Gender:      string(r.Gender),
			Score:       r.Score,
			Rank:        r.Rank,
		}
	}

	return Tally{
		Rankings:      results,
		UnfilledSeats: result.UnfilledCount(),
		Rounds:        result.Rounds,
		InputsHash:    inputsHash(ballots),
		BallotCount:   len(ballots),
	}, nil
}

// loadRegistry retrieves the election's candidates
func loadRegistry(q Queryer, electionID string) (spav.Registry, error) {
	rows, err := q.Query(`
		SELECT id, name, gender FROM candidate WHERE election_id = $1
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reg := spav.Registry{}
	for rows.Next() {
		var c spav.Candidate
		var gender string
		if err := rows.Scan(&c.ID, &c.Name, &gender); err != nil {
			return nil, err
		}
		c.Gender = spav.Gender(gender)
		reg[c.ID] = c
	}

	return reg, rows.Err()
}

// loadBallots retrieves every ballot as a set of approvals, keyed by ballot ID.
// Ballots with no approvals are kept so they count towards the total.
func loadBallots(q Queryer, electionID string) (spav.Ballots, error) {
	rows, err := q.Query(`
		SELECT b.id, a.candidate_id
		FROM ballot b
		LEFT JOIN approval a ON a.ballot_id = b.id
		WHERE b.election_id = $1
		ORDER BY b.id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ballots := spav.Ballots{}
	for rows.Next() {
		var ballotID string
		var candidateID sql.NullString
		if err := rows.Scan(&ballotID, &candidateID); err != nil {
			return nil, err
		}
		ballots.Voter(ballotID)
		if candidateID.Valid {
			ballots.Approve(ballotID, candidateID.String)
		}
	}

	return ballots, rows.Err()
}

// inputsHash fingerprints the exact ballots that were counted
func inputsHash(ballots spav.Ballots) string {
	if len(ballots) == 0 {
		return "no-ballots"
	}

	h := sha256.New()
	for _, voter := range ballots.VoterIDs() {
		approvals := make([]string, 0, len(ballots[voter]))
		for c := range ballots[voter] {
			approvals = append(approvals, c)
		}
		sort.Strings(approvals)
		fmt.Fprintf(h, "%s:%s\n", voter, strings.Join(approvals, ","))
	}
	return hex.EncodeToString(h.Sum(nil))
}
