// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestGetElection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	testutil.AddTestCandidate(t, db, electionID, "Bob", "m")

	t.Run("found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+shareSlug, nil, nil)
		req.SetPathValue("slug", shareSlug)
		w := httptest.NewRecorder()

		handler.GetElection(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ElectionWithCandidates
		testutil.AssertJSON(t, w, &resp)
		if resp.Election.ID != electionID {
			t.Errorf("Expected election %s, got %s", electionID, resp.Election.ID)
		}
		if resp.Election.Description != "A test election" {
			t.Errorf("Unexpected description %q", resp.Election.Description)
		}
		if len(resp.Candidates) != 2 {
			t.Errorf("Expected 2 candidates, got %d", len(resp.Candidates))
		}
	})

	t.Run("not found", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/missing", nil, nil)
		req.SetPathValue("slug", "missing")
		w := httptest.NewRecorder()

		handler.GetElection(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetResultsHiddenWhileOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	_, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()

	handler.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestGetResultsAfterClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	electionHandler := NewElectionHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	electionID, adminKey, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	bob := testutil.AddTestCandidate(t, db, electionID, "Bob", "m")
	carol := testutil.AddTestCandidate(t, db, electionID, "Carol", "f")

	v1 := testutil.CreateTestVoter(t, db, electionID, "voter1")
	v2 := testutil.CreateTestVoter(t, db, electionID, "voter2")
	v3 := testutil.CreateTestVoter(t, db, electionID, "voter3")
	testutil.SubmitTestBallot(t, db, electionID, v1, alice, bob)
	testutil.SubmitTestBallot(t, db, electionID, v2, bob, carol)
	testutil.SubmitTestBallot(t, db, electionID, v3, alice, carol)

	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/close", nil,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	electionHandler.CloseElection(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	t.Run("rankings", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results", nil, nil)
		req.SetPathValue("slug", shareSlug)
		w := httptest.NewRecorder()

		resultsHandler.GetResults(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ResultsResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Election.Status != models.StatusClosed {
			t.Errorf("Expected closed election, got %s", resp.Election.Status)
		}
		if resp.BallotCount != 3 {
			t.Errorf("Expected 3 ballots, got %d", resp.BallotCount)
		}
		if len(resp.Rounds) != 0 {
			t.Error("Rounds should be omitted unless requested")
		}

		want := []string{"Alice", "Bob", "Carol"}
		if len(resp.Rankings) != len(want) {
			t.Fatalf("Expected %d rankings, got %d", len(want), len(resp.Rankings))
		}
		for i, name := range want {
			if resp.Rankings[i].Name != name {
				t.Errorf("Rank %d: expected %s, got %s", i+1, name, resp.Rankings[i].Name)
			}
		}
	})

	t.Run("with rounds", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results?rounds=true", nil, nil)
		req.SetPathValue("slug", shareSlug)
		w := httptest.NewRecorder()

		resultsHandler.GetResults(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ResultsResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Rounds) != 3 {
			t.Fatalf("Expected 3 rounds, got %d", len(resp.Rounds))
		}
		if resp.Rounds[0].Winner != alice {
			t.Errorf("Expected Alice to win round 1, got %s", resp.Rounds[0].Winner)
		}
	})

	t.Run("ballots after close do not change results", func(t *testing.T) {
		late := testutil.CreateTestVoter(t, db, electionID, "latecomer")
		testutil.SubmitTestBallot(t, db, electionID, late, carol)

		req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results", nil, nil)
		req.SetPathValue("slug", shareSlug)
		w := httptest.NewRecorder()

		resultsHandler.GetResults(w, req)

		var resp models.ResultsResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Rankings) != 3 || resp.Rankings[0].CandidateID != alice {
			t.Errorf("Sealed rankings changed: %+v", resp.Rankings)
		}
	})
}

func TestGetBallotCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	for _, name := range []string{"voter1", "voter2"} {
		voter := testutil.CreateTestVoter(t, db, electionID, name)
		testutil.SubmitTestBallot(t, db, electionID, voter, alice)
	}

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/ballot-count", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()

	handler.GetBallotCount(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string]int
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["ballot_count"] != 2 {
		t.Errorf("Expected ballot_count 2, got %d", resp["ballot_count"])
	}
}

func TestGetPreview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	alice := testutil.AddTestCandidate(t, db, electionID, "Alice", "f")
	testutil.AddTestCandidate(t, db, electionID, "Bob", "m")
	voter := testutil.CreateTestVoter(t, db, electionID, "voter1")
	testutil.SubmitTestBallot(t, db, electionID, voter, alice)

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/preview", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()

	handler.GetPreview(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ElectionPreviewResponse
	testutil.AssertJSON(t, w, &resp)
	want := models.ElectionPreviewResponse{
		Title:          "Test Election",
		Status:         models.StatusOpen,
		CandidateCount: 2,
		BallotCount:    1,
	}
	if resp != want {
		t.Errorf("Expected %+v, got %+v", want, resp)
	}
}
