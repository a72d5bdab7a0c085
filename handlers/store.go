// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/spav"
)

// snapshotPayload is the JSON stored in result_snapshot.payload
type snapshotPayload struct {
	Rankings      []models.CandidateResult `json:"rankings"`
	UnfilledSeats int                      `json:"unfilled_seats"`
	Rounds        []spav.Round             `json:"rounds,omitempty"`
	InputsHash    string                   `json:"inputs_hash"`
}

const electionColumns = `id, title, COALESCE(description, ''), creator_name, method, status,
		share_slug, closed_at, final_snapshot_id, created_at`

// getElection looks an election up by "id" or "share_slug"
func getElection(db *sql.DB, key, value string) (models.Election, error) {
	var where string
	switch key {
	case "id":
		where = "id = $1"
	case "share_slug":
		where = "share_slug = $1"
	default:
		return models.Election{}, fmt.Errorf("unsupported election key %q", key)
	}

	var e models.Election
	err := db.QueryRow(`SELECT `+electionColumns+` FROM election WHERE `+where, value).Scan(
		&e.ID, &e.Title, &e.Description, &e.CreatorName,
		&e.Method, &e.Status, &e.ShareSlug, &e.ClosedAt,
		&e.FinalSnapshotID, &e.CreatedAt,
	)
	return e, err
}

// electionStatus returns sql.ErrNoRows when the election does not exist
func electionStatus(db *sql.DB, electionID string) (string, error) {
	var status string
	err := db.QueryRow("SELECT status FROM election WHERE id = $1", electionID).Scan(&status)
	return status, err
}

// electionBySlug resolves a share slug to the election ID and status
func electionBySlug(db *sql.DB, slug string) (id, status string, err error) {
	err = db.QueryRow(`
		SELECT id, status FROM election WHERE share_slug = $1
	`, slug).Scan(&id, &status)
	return id, status, err
}

func getCandidates(db *sql.DB, electionID string) ([]models.Candidate, error) {
	rows, err := db.Query(`
		SELECT id, election_id, name, gender
		FROM candidate
		WHERE election_id = $1
		ORDER BY name, id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Gender); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func countRows(db *sql.DB, table, electionID string) (int, error) {
	var query string
	switch table {
	case "ballot":
		query = "SELECT COUNT(*) FROM ballot WHERE election_id = $1"
	case "candidate":
		query = "SELECT COUNT(*) FROM candidate WHERE election_id = $1"
	default:
		return 0, fmt.Errorf("unsupported table %q", table)
	}

	var n int
	err := db.QueryRow(query, electionID).Scan(&n)
	return n, err
}
