package flow

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/flow/pkg/logger"
)

func addNumbers(a Args) (int, error) {
	return Arg[int](a, "a") + Arg[int](a, "b"), nil
}

func newAddStep() *Step {
	return Must(NewStep1(addNumbers, Inputs(InOf[int]("a"), InOf[int]("b")), Outputs("t")))
}

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)
	return log, buf
}

// record returns a node appending name to the "track" list.
func record(name string) Node {
	return Func(name, func(c *Context) error {
		value, ok := c.Lookup("track")
		if !ok {
			value = NewList()
			c.Set("track", value)
		}
		value.(*List).Append(name)
		return nil
	})
}

// failWith returns a node appending name to "track" and then failing with err.
func failWith(name string, err error) Node {
	recorder := record(name)
	return Func(name, func(c *Context) error {
		_ = recorder.Call(c)
		return err
	})
}

func track(t *testing.T, c *Context) []any {
	t.Helper()
	value, ok := c.Lookup("track")
	if !ok {
		return nil
	}
	return value.(*List).Items()
}
