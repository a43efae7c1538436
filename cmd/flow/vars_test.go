package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVars(t *testing.T) {
	t.Parallel()

	vars, err := parseVars([]string{"count=3", "ratio=0.5", "on=true", "name=ada", "items=[a, b]", "empty=", "eq=a=b"})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"count": 3,
		"ratio": 0.5,
		"on":    true,
		"name":  "ada",
		"items": []any{"a", "b"},
		"empty": "",
		"eq":    "a=b",
	}, vars)
}

func TestParseVarsRejectsMissingName(t *testing.T) {
	t.Parallel()

	_, err := parseVars([]string{"=3"})
	require.Error(t, err)

	_, err = parseVars([]string{"flag"})
	require.Error(t, err)
}
