// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// RegisterVoter handles POST /elections/{slug}/register
func (h *VotingHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 2 || len(req.Username) > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 2-50 characters")
		return
	}

	electionID, status, err := electionBySlug(h.db, shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	var taken bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM voter_claim WHERE election_id = $1 AND username = $2
		)
	`, electionID, req.Username).Scan(&taken)
	if err != nil {
		slog.Error("failed to check username", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if taken {
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
		return
	}

	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		slog.Error("failed to generate voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	// UNIQUE (election_id, username) still guards against a racing registration
	_, err = h.db.Exec(`
		INSERT INTO voter_claim (election_id, username, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, electionID, req.Username, voterToken, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
			return
		}
		slog.Error("failed to insert voter claim", "error", err, "election_id", electionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register voter")
		return
	}

	slog.Info("voter registered", "election_id", electionID, "username", req.Username)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{
		VoterToken: voterToken,
	})
}

// SubmitBallot handles POST /elections/{slug}/ballots.
// A voter's second submission replaces the first.
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}
	if err := auth.ValidateVoterToken(voterToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	approvals := dedupe(req.Approvals)
	if len(approvals) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "approvals cannot be empty")
		return
	}

	electionID, status, err := electionBySlug(h.db, shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	var registered bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM voter_claim
			WHERE election_id = $1 AND voter_token = $2
		)
	`, electionID, voterToken).Scan(&registered)
	if err != nil {
		slog.Error("failed to verify voter token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !registered {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid voter token for this election")
		return
	}

	candidates, err := getCandidates(h.db, electionID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	valid := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		valid[c.ID] = true
	}
	for _, candidateID := range approvals {
		if !valid[candidateID] {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate_id: "+candidateID)
			return
		}
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	userAgent := r.UserAgent()
	now := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var ballotID string
	err = tx.QueryRow(`
		SELECT id FROM ballot WHERE election_id = $1 AND voter_token = $2
	`, electionID, voterToken).Scan(&ballotID)

	isUpdate := err == nil
	switch {
	case isUpdate:
		_, err = tx.Exec(`
			UPDATE ballot
			SET submitted_at = $1, ip_hash = $2, user_agent = $3
			WHERE id = $4
		`, now, ipHash, userAgent, ballotID)
		if err == nil {
			_, err = tx.Exec(`DELETE FROM approval WHERE ballot_id = $1`, ballotID)
		}
		if err != nil {
			slog.Error("failed to update ballot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update ballot")
			return
		}
	case err == sql.ErrNoRows:
		ballotID, err = auth.NewID()
		if err == nil {
			_, err = tx.Exec(`
				INSERT INTO ballot (id, election_id, voter_token, submitted_at, ip_hash, user_agent)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, ballotID, electionID, voterToken, now, ipHash, userAgent)
		}
		if err != nil {
			slog.Error("failed to insert ballot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
			return
		}
	default:
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for _, candidateID := range approvals {
		_, err = tx.Exec(`
			INSERT INTO approval (ballot_id, candidate_id)
			VALUES ($1, $2)
		`, ballotID, candidateID)
		if err != nil {
			slog.Error("failed to insert approval", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save approvals")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	message := "Ballot submitted successfully"
	if isUpdate {
		message = "Ballot updated successfully"
	}

	slog.Info("ballot submitted", "election_id", electionID, "ballot_id", ballotID,
		"approvals", len(approvals), "is_update", isUpdate)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  message,
	})
}

// GetMyBallot handles GET /elections/{slug}/my-ballot
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	voterToken := r.Header.Get("X-Voter-Token")
	if voterToken == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Voter-Token header required")
		return
	}

	electionID, _, err := electionBySlug(h.db, shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var resp models.MyBallotResponse
	err = h.db.QueryRow(`
		SELECT id, submitted_at FROM ballot
		WHERE election_id = $1 AND voter_token = $2
	`, electionID, voterToken).Scan(&resp.BallotID, &resp.SubmittedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot submitted")
		return
	}
	if err != nil {
		slog.Error("failed to query ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT candidate_id FROM approval WHERE ballot_id = $1 ORDER BY candidate_id
	`, resp.BallotID)
	if err != nil {
		slog.Error("failed to query approvals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	resp.Approvals = []string{}
	for rows.Next() {
		var candidateID string
		if err := rows.Scan(&candidateID); err != nil {
			slog.Error("failed to scan approval", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		resp.Approvals = append(resp.Approvals, candidateID)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read approvals", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// dedupe collapses an approval list into a sorted set, dropping blanks
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// isUniqueViolation recognises duplicate-key errors from both drivers
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
