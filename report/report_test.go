// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-elect/spav"
)

func sampleSummary() Summary {
	reg := spav.Registry{
		"c1": {ID: "c1", Gender: spav.Female, Name: "Alice"},
		"c2": {ID: "c2", Gender: spav.Male, Name: "Bob"},
		"c3": {ID: "c3", Gender: spav.Female, Name: "Carol"},
	}
	result := spav.Result{
		Seats: []spav.Seat{
			spav.Winner("c1", 2),
			spav.Winner("c2", 1.5),
			spav.Unfilled(),
		},
		Rounds: []spav.Round{{Number: 1, Scores: map[string]float64{"c1": 2}, Winner: "c1"}},
	}
	return NewSummary(result, reg, 1204)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleSummary(), Options{}))
	assert.Equal(t, " 1 Alice\n 2 Bob\n", buf.String())
}

func TestWriteText_Verbose(t *testing.T) {
	off := false
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleSummary(), Options{Verbose: true, Color: &off}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Election results",
		" 1 Alice (2)",
		" 2 Bob (1.5)",
		"2 of 3 seats filled from 1,204 ballots (1 unfilled)",
	}, lines)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleSummary(), Options{}))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Rankings, 2)
	assert.Equal(t, 1, got.UnfilledSeats)
	assert.Empty(t, got.Rounds)
	assert.Equal(t, "Bob", got.Rankings[1].Name)
}

func TestWriteYAML_Verbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, sampleSummary(), Options{Verbose: true}))

	var got Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got.Seats)
	require.Len(t, got.Rounds, 1)
	assert.Equal(t, "c1", got.Rounds[0].Winner)
	assert.Contains(t, buf.String(), "candidate_id: c2")
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", sampleSummary(), Options{}))
}
