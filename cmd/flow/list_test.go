package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/flow/internal/samples"
)

func TestListCommandTableOutput(t *testing.T) {
	stdout, _, err := executeCommand(t, "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "ID")
	require.Contains(t, stdout, "KIND")
	require.Contains(t, stdout, samples.RoundTripID)
	require.Contains(t, stdout, "Round trip")
	require.Regexp(t, `samples:measure_word\s+node\s+Measure word\s+-`, stdout)
	require.Regexp(t, `samples:round_trip\s+workflow`, stdout)
}

func TestListCommandJSONOutput(t *testing.T) {
	stdout, _, err := executeCommand(t, "list", "--json")
	require.NoError(t, err)

	var payload listJSONPayload
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Equal(t, 6, payload.Count)
	require.Equal(t, samples.CaptureID, payload.Entries[0].ID)
	require.Equal(t, "workflow", payload.Entries[0].Kind)
	require.NotEmpty(t, payload.Entries[0].Description)
}

func TestListRejectsArguments(t *testing.T) {
	_, _, err := executeCommand(t, "list", "extra")
	require.Error(t, err)
}
