package models

import (
	"time"

	"github.com/danielhkuo/quickly-elect/spav"
)

// Election status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Counting method constants
const (
	MethodDSPAV = "dspav"
)

// Request types

type CreateElectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatorName string `json:"creator_name"`
}

type AddCandidateRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"` // "f" or "m"
}

type RegisterVoterRequest struct {
	Username string `json:"username"`
}

// Candidate IDs the voter approves of; duplicates are collapsed
type SubmitBallotRequest struct {
	Approvals []string `json:"approvals"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type PublishElectionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type RegisterVoterResponse struct {
	VoterToken string `json:"voter_token"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type MyBallotResponse struct {
	BallotID    string    `json:"ballot_id"`
	Approvals   []string  `json:"approvals"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type CloseElectionResponse struct {
	ClosedAt time.Time      `json:"closed_at"`
	Snapshot ResultSnapshot `json:"snapshot"`
}

type ElectionPreviewResponse struct {
	Title          string `json:"title"`
	Status         string `json:"status"`
	CandidateCount int    `json:"candidate_count"`
	BallotCount    int    `json:"ballot_count"`
}

type ResultsResponse struct {
	Election      Election          `json:"election"`
	Rankings      []CandidateResult `json:"rankings"`
	UnfilledSeats int               `json:"unfilled_seats"`
	BallotCount   int               `json:"ballot_count"`
	Rounds        []spav.Round      `json:"rounds,omitempty"`
}

// Domain types

type Election struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CreatorName     string     `json:"creator_name"`
	Method          string     `json:"method"`
	Status          string     `json:"status"`
	ShareSlug       *string    `json:"share_slug,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	FinalSnapshotID *string    `json:"final_snapshot_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Candidate struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
}

type ElectionWithCandidates struct {
	Election   Election    `json:"election"`
	Candidates []Candidate `json:"candidates"`
}

// dSPAV result types

// CandidateResult is one elected seat; unfilled seats never appear
type CandidateResult struct {
	CandidateID string  `json:"candidate_id"`
	Name        string  `json:"name"`
	Gender      string  `json:"gender"`
	Score       float64 `json:"score"`
	Rank        int     `json:"rank"` // 1-indexed
}

type ResultSnapshot struct {
	ID            string            `json:"id"`
	ElectionID    string            `json:"election_id"`
	Method        string            `json:"method"`
	ComputedAt    time.Time         `json:"computed_at"`
	Rankings      []CandidateResult `json:"rankings"`
	UnfilledSeats int               `json:"unfilled_seats"`
	Rounds        []spav.Round      `json:"rounds,omitempty"`
	InputsHash    string            `json:"inputs_hash"` // sha256 of sorted ballots
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
