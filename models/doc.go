// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateElectionRequest: title, description, creator_name
  - AddCandidateRequest: name, gender ("f" or "m")
  - RegisterVoterRequest: username
  - SubmitBallotRequest: approvals ([]candidate_id)

# Response Types

  - CreateElectionResponse: election_id, admin_key
  - AddCandidateResponse: candidate_id
  - PublishElectionResponse: share_slug, share_url
  - RegisterVoterResponse: voter_token
  - SubmitBallotResponse, MyBallotResponse
  - CloseElectionResponse: closed_at, snapshot
  - ResultsResponse, ElectionPreviewResponse
  - ErrorResponse: error, message

# Domain Types

  - Election: metadata and lifecycle state
  - Candidate: name and gender category
  - Ballot: voter submission metadata
  - CandidateResult: one elected seat with its round score
  - ResultSnapshot: immutable dSPAV result record

# Constants

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

	MethodDSPAV = "dspav"
*/
package models
