// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Elect API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Election management (admin, requires X-Admin-Key):

	POST /elections                 - Create election
	GET  /elections/{id}/admin      - Election details and candidates
	POST /elections/{id}/candidates - Add candidate (name, gender)
	POST /elections/{id}/publish    - Open for voting
	POST /elections/{id}/close      - Count and seal results

Voting (public, uses share slug):

	POST /elections/{slug}/register  - Register a voter username
	GET  /elections/{slug}/my-ballot - Voter's current approvals
	POST /elections/{slug}/ballots   - Submit/replace approval ballot

Results (public):

	GET /elections/{slug}              - Election info and candidates
	GET /elections/{slug}/results      - Final results (closed only, ?rounds=true for the trace)
	GET /elections/{slug}/ballot-count - Ballot count
	GET /elections/{slug}/preview      - Compact preview data

Every election route is wrapped in middleware.WithLogging.
*/
package router
