// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-elect/spav"
)

var (
	ErrMalformedLine      = errors.New("malformed line")
	ErrInvalidGender      = errors.New("gender must be f or m")
	ErrDuplicateCandidate = errors.New("duplicate candidate id")
	ErrUnknownCandidate   = errors.New("unknown candidate id")
)

// Format selects how the voters file is laid out
type Format string

const (
	// FormatPairs is a header line followed by "voterID,candidateID" rows
	FormatPairs Format = "pairs"
	// FormatRows has no header; each line is one ballot of candidate ids
	FormatRows Format = "rows"
)

// ReadCandidates parses "id,gender,name" lines after a header line.
// Names may themselves contain commas.
func ReadCandidates(r io.Reader) (spav.Registry, error) {
	reg := spav.Registry{}
	err := eachLine(r, true, func(n int, line string) error {
		fields := strings.SplitN(line, ",", 3)
		if len(fields) != 3 {
			return fmt.Errorf("candidates line %d: %w", n, ErrMalformedLine)
		}

		id := strings.TrimSpace(fields[0])
		gender := spav.Gender(strings.ToLower(strings.TrimSpace(fields[1])))
		name := strings.TrimSpace(fields[2])

		if id == "" {
			return fmt.Errorf("candidates line %d: empty id: %w", n, ErrMalformedLine)
		}
		if !gender.Valid() {
			return fmt.Errorf("candidates line %d: %q: %w", n, gender, ErrInvalidGender)
		}
		if _, dup := reg[id]; dup {
			return fmt.Errorf("candidates line %d: %q: %w", n, id, ErrDuplicateCandidate)
		}

		reg[id] = spav.Candidate{ID: id, Gender: gender, Name: name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// ReadVoterPairs parses "voterID,candidateID" lines after a header line.
// Repeated pairs collapse into one approval.
func ReadVoterPairs(r io.Reader, reg spav.Registry) (spav.Ballots, error) {
	ballots := spav.Ballots{}
	err := eachLine(r, true, func(n int, line string) error {
		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return fmt.Errorf("voters line %d: %w", n, ErrMalformedLine)
		}

		voter := strings.TrimSpace(fields[0])
		candidate := strings.TrimSpace(fields[1])
		if voter == "" {
			return fmt.Errorf("voters line %d: empty voter id: %w", n, ErrMalformedLine)
		}
		if _, ok := reg[candidate]; !ok {
			return fmt.Errorf("voters line %d: %q: %w", n, candidate, ErrUnknownCandidate)
		}

		ballots.Approve(voter, candidate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ballots, nil
}

// ReadBallotRows parses one ballot per line with no header. Quotes are
// stripped and voters are numbered from 1 in line order.
func ReadBallotRows(r io.Reader, reg spav.Registry) (spav.Ballots, error) {
	ballots := spav.Ballots{}
	voter := 0
	err := eachLine(r, false, func(n int, line string) error {
		voter++
		id := strconv.Itoa(voter)
		ballots.Voter(id)

		for _, field := range strings.Split(strings.ReplaceAll(line, `"`, ""), ",") {
			candidate := strings.TrimSpace(field)
			if candidate == "" {
				continue
			}
			if _, ok := reg[candidate]; !ok {
				return fmt.Errorf("ballots line %d: %q: %w", n, candidate, ErrUnknownCandidate)
			}
			ballots.Approve(id, candidate)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ballots, nil
}

// LoadFiles reads a candidates file and a voters file in the given format
func LoadFiles(candidatesPath, votersPath string, format Format) (spav.Registry, spav.Ballots, error) {
	cf, err := os.Open(candidatesPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open candidates file: %w", err)
	}
	defer cf.Close()

	reg, err := ReadCandidates(cf)
	if err != nil {
		return nil, nil, err
	}

	vf, err := os.Open(votersPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open voters file: %w", err)
	}
	defer vf.Close()

	var ballots spav.Ballots
	switch format {
	case FormatRows:
		ballots, err = ReadBallotRows(vf, reg)
	case FormatPairs, "":
		ballots, err = ReadVoterPairs(vf, reg)
	default:
		return nil, nil, fmt.Errorf("unknown voters format %q", format)
	}
	if err != nil {
		return nil, nil, err
	}

	return reg, ballots, nil
}

// eachLine calls fn for every non-blank line, numbering from 1
func eachLine(r io.Reader, skipHeader bool, fn func(n int, line string) error) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		if skipHeader && n == 1 {
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
