// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package report renders election results as text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-elect/spav"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Summary is the document written by the JSON and YAML formats
type Summary struct {
	Rankings      []spav.Ranking `json:"rankings" yaml:"rankings"`
	Seats         int            `json:"seats" yaml:"seats"`
	UnfilledSeats int            `json:"unfilled_seats" yaml:"unfilled_seats"`
	BallotCount   int            `json:"ballot_count" yaml:"ballot_count"`
	Rounds        []spav.Round   `json:"rounds,omitempty" yaml:"rounds,omitempty"`
}

// NewSummary builds a Summary from a finished election
func NewSummary(result spav.Result, reg spav.Registry, ballotCount int) Summary {
	return Summary{
		Rankings:      result.Rankings(reg),
		Seats:         len(result.Seats),
		UnfilledSeats: result.UnfilledCount(),
		BallotCount:   ballotCount,
		Rounds:        result.Rounds,
	}
}

// Options controls text output
type Options struct {
	Verbose bool
	// Color forces header coloring on or off; nil detects a terminal on stdout
	Color *bool
}

// Write renders the summary in the named format
func Write(w io.Writer, format string, s Summary, opts Options) error {
	switch format {
	case FormatText, "":
		return WriteText(w, s, opts)
	case FormatJSON:
		return WriteJSON(w, s, opts.Verbose)
	case FormatYAML:
		return WriteYAML(w, s, opts.Verbose)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteText prints one line per winner, "%2d name", adding scores and a
// summary in verbose mode. Unfilled seats are never printed.
func WriteText(w io.Writer, s Summary, opts Options) error {
	if opts.Verbose {
		header := color.New(color.Bold, color.FgCyan)
		if useColor(opts.Color) {
			header.EnableColor()
		} else {
			header.DisableColor()
		}
		if _, err := header.Fprintln(w, "Election results"); err != nil {
			return err
		}
	}

	for _, r := range s.Rankings {
		var err error
		if opts.Verbose {
			_, err = fmt.Fprintf(w, "%2d %s (%g)\n", r.Rank, r.Name, r.Score)
		} else {
			_, err = fmt.Fprintf(w, "%2d %s\n", r.Rank, r.Name)
		}
		if err != nil {
			return err
		}
	}

	if opts.Verbose {
		_, err := fmt.Fprintf(w, "%s of %s seats filled from %s ballots",
			humanize.Comma(int64(len(s.Rankings))),
			humanize.Comma(int64(s.Seats)),
			humanize.Comma(int64(s.BallotCount)))
		if err != nil {
			return err
		}
		if s.UnfilledSeats > 0 {
			_, err = fmt.Fprintf(w, " (%s unfilled)", humanize.Comma(int64(s.UnfilledSeats)))
			if err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

// WriteJSON writes the summary as indented JSON. Rounds are included only
// when verbose.
func WriteJSON(w io.Writer, s Summary, verbose bool) error {
	if !verbose {
		s.Rounds = nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML writes the summary as YAML. Rounds are included only when verbose.
func WriteYAML(w io.Writer, s Summary, verbose bool) error {
	if !verbose {
		s.Rounds = nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func useColor(force *bool) bool {
	if force != nil {
		return *force
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
