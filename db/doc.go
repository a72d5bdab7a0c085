// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open selects the driver from the configured type:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

  - "postgres": github.com/lib/pq
  - "sqlite": modernc.org/sqlite (pure Go, default; limited to one open
    connection)

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The same SQL runs on both drivers.

# Tables

  - election: metadata and lifecycle state
  - candidate: name and gender ('f' or 'm') per election
  - voter_claim: maps usernames to voter tokens
  - ballot: one approval ballot per voter per election
  - approval: one row per approved candidate (a set; primary key dedupes)
  - result_snapshot: immutable dSPAV results (JSON payload)

# Relationships

	election 1──* candidate
	election 1──* voter_claim
	election 1──* ballot
	ballot 1──* approval *──1 candidate
	election 1──* result_snapshot

All foreign keys use ON DELETE CASCADE.
*/
package db
