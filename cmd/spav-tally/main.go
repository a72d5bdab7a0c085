// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command spav-tally counts a diversity-constrained SPAV election from two
// files and prints the ranked winners.
//
//	spav-tally candidates.csv voters.csv
//	spav-tally -voters-format rows -o json -v candidates.csv ballots.csv
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/loader"
	"github.com/danielhkuo/quickly-elect/report"
	"github.com/danielhkuo/quickly-elect/spav"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	cfg, err := cliparse.ParseTallyFlags(args)
	if err != nil {
		logger.Error("Error parsing flags", "error", err)
		return 2
	}

	reg, ballots, err := loader.LoadFiles(cfg.CandidatesPath, cfg.VotersPath, loader.Format(cfg.VotersFormat))
	if err != nil {
		logger.Error("failed to load election", "error", err)
		return 1
	}
	logger.Debug("election loaded", "candidates", len(reg), "voters", len(ballots))

	result := spav.Run(reg, ballots, spav.Options{
		Logger:  logger,
		Verbose: cfg.Verbose,
	})

	summary := report.NewSummary(result, reg, len(ballots))
	if err := report.Write(stdout, cfg.Format, summary, report.Options{Verbose: cfg.Verbose}); err != nil {
		logger.Error("failed to write report", "error", err)
		return 1
	}

	return 0
}
