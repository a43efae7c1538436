package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/flow/internal/samples"
)

func TestDescribeCommandPrintsTree(t *testing.T) {
	stdout, _, err := executeCommand(t, "describe", samples.RoundTripID)
	require.NoError(t, err)
	require.Contains(t, stdout, "Adds a and b")
	require.Contains(t, stdout, "Round trip (sequence)\n")
	require.Contains(t, stdout, "  Conditional branch (multi-branch)\n")
	require.Contains(t, stdout, "    [true] Append 'smaller' to messages\n")
	require.Contains(t, stdout, "    [loop] Log Message '{error}'\n")
}

func TestDescribeCommandShowsParallelWorker(t *testing.T) {
	stdout, _, err := executeCommand(t, "describe", samples.WordLengthsID)
	require.NoError(t, err)
	require.Contains(t, stdout, "Map (word) in `words` (multi-branch)\n")
	require.Contains(t, stdout, "    [loop] Measure word\n")
}

func TestDescribeUnknownWorkflow(t *testing.T) {
	_, _, err := executeCommand(t, "describe", "samples:missing")
	require.Error(t, err)
	require.Contains(t, err.Error(), "flow list")
}
