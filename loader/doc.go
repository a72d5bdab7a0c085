// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package loader reads election input files.

# Candidates

A header line, then one "id,gender,name" row per candidate. The name is
everything after the second comma, so it may itself contain commas.
Gender is f or m, case-insensitive.

	cID,gender,name
	c1,f,Alice
	c2,m,Bob

# Voters

FormatPairs is a header line then one "voterID,candidateID" row per
approval. Repeated pairs collapse.

FormatRows has no header; each line is one ballot listing the approved
candidate ids, and voters are numbered from 1 in line order.

Unknown candidate ids are rejected with ErrUnknownCandidate.
*/
package loader
