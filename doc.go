// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Elect API server.

Quickly Elect runs committee elections with approval ballots counted by
diversity-aware sequential proportional approval voting (dSPAV): after the
first four seats, a man is only seated while women keep pace.

# Starting the Server

The server reads environment variables (or a .env file) and CLI flags:

	DATABASE_URL=elect.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - ELECTION_SLUG_SALT (--slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (--base-url): Public URL used in share links
  - VERBOSE (-v): Log every counting round when an election closes

# Architecture

The server uses a handler-based architecture with dependency injection:

  - spav: The counting core
  - handlers: HTTP request handlers (elections, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Token generation and validation
  - db: Connection and schema creation
  - cliparse: Configuration parsing

The offline counter in cmd/spav-tally reads CSV files through package
loader and prints through package report.
*/
package main
