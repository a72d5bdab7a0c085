// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
)

// SetupTestDB opens a fresh in-memory SQLite database with the full schema.
// Closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseURL:      ":memory:",
		DatabaseType:     "sqlite",
		AdminKeySalt:     "test-admin-salt",
		ElectionSlugSalt: "test-slug-salt",
		BaseURL:          "https://quickly-elect.test",
	}
}

// CreateTestElection inserts an election and returns its ID, admin key and
// share slug. status should be "draft", "open", or "closed".
func CreateTestElection(t *testing.T, conn *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey, shareSlug string) {
	t.Helper()

	electionID, _ = auth.NewID()
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(electionID, cfg.ElectionSlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, creator_name, method, status, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Election', 'A test election', 'TestUser', 'dspav', $2, $3, $4, $5)
	`, electionID, status, slug, closedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey, shareSlug
}

// AddTestCandidate adds a candidate and returns its ID
func AddTestCandidate(t *testing.T, conn *sql.DB, electionID, name, gender string) string {
	t.Helper()

	candidateID, _ := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, election_id, name, gender)
		VALUES ($1, $2, $3, $4)
	`, candidateID, electionID, name, gender)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// CreateTestVoter registers a username and returns the voter token
func CreateTestVoter(t *testing.T, conn *sql.DB, electionID, username string) string {
	t.Helper()

	voterToken, _ := auth.GenerateVoterToken()
	_, err := conn.Exec(`
		INSERT INTO voter_claim (election_id, username, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, electionID, username, voterToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voterToken
}

// SubmitTestBallot stores an approval ballot for a voter and returns its ID
func SubmitTestBallot(t *testing.T, conn *sql.DB, electionID, voterToken string, approvals ...string) string {
	t.Helper()

	ballotID, _ := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, voter_token, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, ballotID, electionID, voterToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for _, candidateID := range approvals {
		_, err := conn.Exec(`
			INSERT INTO approval (ballot_id, candidate_id)
			VALUES ($1, $2)
		`, ballotID, candidateID)
		if err != nil {
			t.Fatalf("Failed to create test approval: %v", err)
		}
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
