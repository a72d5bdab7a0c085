// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/spav"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CreatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "creator_name is required")
		return
	}

	electionID, err := auth.NewID()
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	_, err = h.db.Exec(`
		INSERT INTO election (id, title, description, creator_name, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, electionID, req.Title, req.Description, req.CreatorName, models.MethodDSPAV, models.StatusDraft, time.Now())
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "creator", req.CreatorName)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
	})
}

// AddCandidate handles POST /elections/{id}/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	gender := spav.Gender(strings.ToLower(strings.TrimSpace(req.Gender)))
	if !gender.Valid() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "gender must be f or m")
		return
	}

	status, err := electionStatus(h.db, electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add candidates to non-draft election")
		return
	}

	candidateID, err := auth.NewID()
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, name, gender)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, req.Name, string(gender))
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate added", "election_id", electionID, "candidate_id", candidateID, "gender", gender)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// PublishElection handles POST /elections/{id}/publish
func (h *ElectionHandler) PublishElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var status string
	var candidateCount int
	err := h.db.QueryRow(`
		SELECT e.status, COUNT(c.id)
		FROM election e
		LEFT JOIN candidate c ON e.id = c.election_id
		WHERE e.id = $1
		GROUP BY e.status
	`, electionID).Scan(&status, &candidateCount)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not in draft status")
		return
	}
	if candidateCount < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election must have at least 2 candidates")
		return
	}

	shareSlug := auth.GenerateShareSlug(electionID, h.cfg.ElectionSlugSalt)

	_, err = h.db.Exec(`
		UPDATE election
		SET status = $1, share_slug = $2
		WHERE id = $3
	`, models.StatusOpen, shareSlug, electionID)
	if err != nil {
		slog.Error("failed to publish election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to publish election")
		return
	}

	slog.Info("election published", "election_id", electionID, "share_slug", shareSlug)

	middleware.JSONResponse(w, http.StatusOK, models.PublishElectionResponse{
		ShareSlug: shareSlug,
		ShareURL:  strings.TrimRight(h.cfg.BaseURL, "/") + "/elections/" + shareSlug,
	})
}

// GetElectionAdmin handles GET /elections/{id}/admin
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	election, err := getElection(h.db, "id", electionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	candidates, err := getCandidates(h.db, election.ID)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithCandidates{
		Election:   election,
		Candidates: candidates,
	})
}

// CloseElection handles POST /elections/{id}/close.
// Counts the ballots and seals the result in a single transaction.
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	snapshotID, err := auth.NewID()
	if err != nil {
		slog.Error("failed to generate snapshot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}
	closedAt := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRow("SELECT status FROM election WHERE id = $1", electionID).Scan(&status)
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
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	// Guarded on status so a concurrent close cannot seal twice
	res, err := tx.Exec(`
		UPDATE election
		SET status = $1, closed_at = $2, final_snapshot_id = $3
		WHERE id = $4 AND status = $5
	`, models.StatusClosed, closedAt, snapshotID, electionID, models.StatusOpen)
	if err != nil {
		slog.Error("failed to close election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	tally, err := ComputeSPAVRankings(tx, electionID, spav.Options{
		Logger:  slog.Default().With("election_id", electionID),
		Verbose: h.cfg.Verbose,
	})
	if err != nil {
		slog.Error("failed to count election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	snapshot := models.ResultSnapshot{
		ID:            snapshotID,
		ElectionID:    electionID,
		Method:        models.MethodDSPAV,
		ComputedAt:    closedAt,
		Rankings:      tally.Rankings,
		UnfilledSeats: tally.UnfilledSeats,
		Rounds:        tally.Rounds,
		InputsHash:    tally.InputsHash,
	}

	payload, err := json.Marshal(snapshotPayload{
		Rankings:      snapshot.Rankings,
		UnfilledSeats: snapshot.UnfilledSeats,
		Rounds:        snapshot.Rounds,
		InputsHash:    snapshot.InputsHash,
	})
	if err != nil {
		slog.Error("failed to encode snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO result_snapshot (id, election_id, method, computed_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`, snapshotID, electionID, models.MethodDSPAV, closedAt, string(payload))
	if err != nil {
		slog.Error("failed to insert snapshot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save results")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	slog.Info("election closed",
		"election_id", electionID,
		"snapshot_id", snapshotID,
		"ballots", tally.BallotCount,
		"seats_filled", len(tally.Rankings),
		"unfilled", tally.UnfilledSeats,
	)

	middleware.JSONResponse(w, http.StatusOK, models.CloseElectionResponse{
		ClosedAt: closedAt,
		Snapshot: snapshot,
	})
}

// requireAdmin reads the election ID path value and checks X-Admin-Key
func (h *ElectionHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return "", false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}

	return electionID, true
}
