// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"testing"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestRegisterVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	_, _, closedSlug := testutil.CreateTestElection(t, db, cfg, "closed")
	testutil.CreateTestVoter(t, db, electionID, "taken")

	tests := []struct {
		name           string
		shareSlug      string
		username       string
		expectedStatus int
	}{
		{"valid username", shareSlug, "bob", http.StatusCreated},
		{"username trimmed", shareSlug, "  carol  ", http.StatusCreated},
		{"username too short", shareSlug, "a", http.StatusBadRequest},
		{"username too long", shareSlug, "this_is_a_very_long_username_that_exceeds_fifty_characters_limit", http.StatusBadRequest},
		{"username taken", shareSlug, "taken", http.StatusConflict},
		{"election closed", closedSlug, "dave", http.StatusConflict},
		{"election not found", "nonexistent-slug", "erin", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/elections/"+tt.shareSlug+"/register",
				models.RegisterVoterRequest{Username: tt.username}, nil)
			req.SetPathValue("slug", tt.shareSlug)
			w := httptest.NewRecorder()

			handler.RegisterVoter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.RegisterVoterResponse
			testutil.AssertJSON(t, w, &resp)
			if err := auth.ValidateVoterToken(resp.VoterToken); err != nil {
				t.Errorf("Returned voter token is invalid: %v", err)
			}

			var stored string
			err := db.QueryRow(`
				SELECT voter_token FROM voter_claim WHERE election_id = $1 AND voter_token = $2
			`, electionID, resp.VoterToken).Scan(&stored)
			if err != nil {
				t.Errorf("Voter claim was not stored: %v", err)
			}
		})
	}
}

func TestSubmitBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	bob := testutil.AddTestCandidate(t, db, electionID, "Bob", "m")

	otherID, _, _ := testutil.CreateTestElection(t, db, cfg, "open")
	foreign := testutil.AddTestCandidate(t, db, otherID, "Zed", "m")
	outsider := testutil.CreateTestVoter(t, db, otherID, "outsider")

	voter := testutil.CreateTestVoter(t, db, electionID, "voter1")

	tests := []struct {
		name           string
		voterToken     string
		approvals      []string
		expectedStatus int
	}{
		{"missing token", "", []string{alice}, http.StatusUnauthorized},
		{"malformed token", "not-a-token!", []string{alice}, http.StatusUnauthorized},
		{"token from another election", outsider, []string{alice}, http.StatusUnauthorized},
		{"empty approvals", voter, []string{}, http.StatusBadRequest},
		{"blank approvals", voter, []string{" "}, http.StatusBadRequest},
		{"candidate from another election", voter, []string{foreign}, http.StatusBadRequest},
		{"unknown candidate", voter, []string{"nope"}, http.StatusBadRequest},
		{"valid ballot", voter, []string{alice, bob, alice}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.voterToken != "" {
				headers["X-Voter-Token"] = tt.voterToken
			}
			req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
				models.SubmitBallotRequest{Approvals: tt.approvals}, headers)
			req.SetPathValue("slug", shareSlug)
			w := httptest.NewRecorder()

			handler.SubmitBallot(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM approval a
		JOIN ballot b ON a.ballot_id = b.id
		WHERE b.election_id = $1
	`, electionID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count approvals: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected duplicate approvals collapsed to 2 rows, got %d", n)
	}
}

func TestSubmitBallotReplacesPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	bob := testutil.AddTestCandidate(t, db, electionID, "Bob", "m")
	voter := testutil.CreateTestVoter(t, db, electionID, "voter1")

	submit := func(approvals ...string) models.SubmitBallotResponse {
		req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
			models.SubmitBallotRequest{Approvals: approvals},
			map[string]string{"X-Voter-Token": voter})
		req.SetPathValue("slug", shareSlug)
		w := httptest.NewRecorder()
		handler.SubmitBallot(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.SubmitBallotResponse
		testutil.AssertJSON(t, w, &resp)
		return resp
	}

	first := submit(alice, bob)
	second := submit(bob)

	if first.BallotID != second.BallotID {
		t.Errorf("Expected ballot %s to be reused, got %s", first.BallotID, second.BallotID)
	}
	if second.Message != "Ballot updated successfully" {
		t.Errorf("Unexpected message %q", second.Message)
	}

	count, err := countRows(db, "ballot", electionID)
	if err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 ballot, got %d", count)
	}

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/my-ballot", nil,
		map[string]string{"X-Voter-Token": voter})
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()
	handler.GetMyBallot(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var mine models.MyBallotResponse
	testutil.AssertJSON(t, w, &mine)
	if !reflect.DeepEqual(mine.Approvals, []string{bob}) {
		t.Errorf("Expected approvals [%s], got %v", bob, mine.Approvals)
	}
}

func TestSubmitBallotClosedElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "closed")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	voter := testutil.CreateTestVoter(t, db, electionID, "voter1")

	req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
		models.SubmitBallotRequest{Approvals: []string{alice}},
		map[string]string{"X-Voter-Token": voter})
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()

	handler.SubmitBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestGetMyBallotNotSubmitted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	voter := testutil.CreateTestVoter(t, db, electionID, "voter1")

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/my-ballot", nil,
		map[string]string{"X-Voter-Token": voter})
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()

	handler.GetMyBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"c2", " c1 ", "", "c2", "c1"})
	want := []string{"c1", "c2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if !sort.StringsAreSorted(got) {
		t.Error("Expected sorted output")
	}
}
