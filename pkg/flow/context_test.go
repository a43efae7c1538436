package flow

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextLogsIndentByDepth(t *testing.T) {
	t.Parallel()

	log, buf := newTestLogger(t)
	c := NewContext(WithLogger(log), WithRunID("run-1"))

	require.NoError(t, c.Scope(func() error {
		c.Info("nested %d", 1)
		return nil
	}))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	require.Equal(t, "  nested 1", entry["message"])
	require.Equal(t, "run-1", entry["run_id"])
	require.Equal(t, "run-1", c.RunID())
}

func TestContextScopeAlwaysPops(t *testing.T) {
	t.Parallel()

	c := NewContext()
	boom := errors.New("boom")

	err := c.Scope(func() error {
		c.Set("inner", 1)
		require.Equal(t, 1, c.Depth())
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, c.Depth())
	require.False(t, c.Has("inner"))
}

func TestContextGeneratesRunID(t *testing.T) {
	t.Parallel()

	require.NotEqual(t, NewContext().RunID(), NewContext().RunID())
	require.NotNil(t, NewContext().Context())
}
