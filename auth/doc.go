// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides keys, tokens and identifiers for elections.

# Admin Keys

Admin keys are HMAC-SHA256 of the election ID under a server salt:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

Deterministic, so validation needs no stored key.

# Voter Tokens

	token, err := auth.GenerateVoterToken()

24 random bytes, URL-safe base64 without padding. Issued when a voter
registers for an election and required to submit an approval ballot.

# Share Slugs

	slug := auth.GenerateShareSlug(electionID, salt)

Base62 of the first 8 HMAC bytes.

# IDs

	id, err := auth.NewID() // 32 hex characters, UUIDv4

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)
*/
package auth
