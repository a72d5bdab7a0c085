// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Server Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first if present. Values
already in the environment are never overwritten by it.

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type (sqlite or postgres)
	-base-url    Public base URL for share links
	-v           Log every counting round
	-admin-salt  Admin key salt
	-slug-salt   Election slug salt

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p (default 3318)
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t (default sqlite)
	BASE_URL           → -base-url
	VERBOSE            → -v
	ADMIN_KEY_SALT     → -admin-salt
	ELECTION_SLUG_SALT → -slug-salt

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - ADMIN_KEY_SALT must be provided
  - ELECTION_SLUG_SALT must be provided

# Tally Configuration

ParseTallyFlags configures cmd/spav-tally. The two input files may be given
as flags or positionally:

	spav-tally -c candidates.csv -b voters.csv
	spav-tally -o yaml -voters-format rows candidates.csv ballots.csv

Flags must come before the file paths. Anything after the second path is
rejected.
*/
package cliparse
