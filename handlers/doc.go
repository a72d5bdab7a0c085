// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Elect API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election lifecycle (create, candidates, publish, close)
  - VotingHandler: Voter registration and approval ballots
  - ResultsHandler: Election info, ballot counts and sealed results

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Lifecycle

Elections progress through three states: draft → open → closed

	POST /elections                  → CreateElection (returns admin_key)
	POST /elections/{id}/candidates  → AddCandidate (draft only, gender f or m)
	POST /elections/{id}/publish     → PublishElection (generates share_slug)
	POST /elections/{id}/close       → CloseElection (counts and seals results)

Admin operations require the X-Admin-Key header.

# Voting Flow

Voters interact via the share slug:

	POST /elections/{slug}/register  → RegisterVoter (returns voter_token)
	POST /elections/{slug}/ballots   → SubmitBallot (create or replace)
	GET  /elections/{slug}/my-ballot → GetMyBallot

Voter operations require the X-Voter-Token header.

# Counting

Closing an election runs diversity-aware sequential proportional approval
voting over the stored ballots (see package spav):

	tally, err := ComputeSPAVRankings(tx, electionID, spav.Options{})

The rankings, unfilled seat count, per-round trace and a hash of the
counted ballots are stored as a result snapshot. Results stay hidden until
the election is closed.
*/
package handlers
