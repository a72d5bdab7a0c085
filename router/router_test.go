// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "quickly-elect API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	// 400, 401, 403 and 404 are all valid handler responses here
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/elections"},
		{"GET", "/elections/test-id/admin"},
		{"POST", "/elections/test-id/candidates"},
		{"POST", "/elections/test-id/publish"},
		{"POST", "/elections/test-id/close"},

		{"POST", "/elections/test-slug/register"},
		{"POST", "/elections/test-slug/ballots"},
		{"GET", "/elections/test-slug/my-ballot"},

		{"GET", "/elections/test-slug"},
		{"GET", "/elections/test-slug/results"},
		{"GET", "/elections/test-slug/ballot-count"},
		{"GET", "/elections/test-slug/preview"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"DELETE admin view", "DELETE", "/elections/test-id/admin", http.StatusMethodNotAllowed},
		{"PUT to candidates endpoint", "PUT", "/elections/test-id/candidates", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	electionID, adminKey, _ := testutil.CreateTestElection(t, db, cfg, "draft")
	_, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")

	mux := NewRouter(db, cfg)

	t.Run("election ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/"+electionID+"/admin", nil)
		req.Header.Set("X-Admin-Key", adminKey)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with valid admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
		if w.Header().Get(middleware.RequestIDHeader) == "" {
			t.Error("Expected request id header on logged route")
		}
	})

	t.Run("share slug extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/"+shareSlug+"/preview", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for known slug, got %d. Body: %s", w.Code, w.Body.String())
		}
	})
}
