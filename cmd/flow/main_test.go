package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/flow/internal/samples"
	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

func TestMain(m *testing.M) {
	flow.ResetRegistry()
	if err := samples.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootWithoutSubcommandPrintsHelp(t *testing.T) {
	stdout, _, err := executeCommand(t)
	require.NoError(t, err)
	require.Contains(t, stdout, "Available Commands")
	require.Contains(t, stdout, "describe")
}
