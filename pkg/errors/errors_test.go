package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("flow.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "flow.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "flow.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("parallel.workers", "must be at least 1", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "parallel.workers", validationErr.Field)
	require.Contains(t, err.Error(), "must be at least 1")
}

func TestKindHierarchy(t *testing.T) {
	t.Parallel()

	require.True(t, KindMissingVariable.IsA(KindVariable))
	require.True(t, KindMissingVariable.IsA(KindWorkflow))
	require.True(t, KindEmptyScope.IsA(KindRuntime))
	require.False(t, KindStepFailed.IsA(KindRuntime))
	require.False(t, KindWorkflow.IsA(KindFatal))
}

func TestSentinelsMatchThroughHierarchy(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", NewMissingVariableError("Add", "a", "b"))

	require.ErrorIs(t, err, ErrMissingVariable)
	require.ErrorIs(t, err, ErrVariable)
	require.ErrorIs(t, err, ErrWorkflow)
	require.NotErrorIs(t, err, ErrVariableType)
	require.NotErrorIs(t, err, ErrFatal)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindMissingVariable, kind)
}

func TestMissingVariableMessage(t *testing.T) {
	t.Parallel()

	err := NewMissingVariableError("Sum", "a", "b", "c")

	var flowErr *Error
	require.ErrorAs(t, err, &flowErr)
	require.Equal(t, []string{"a", "b", "c"}, flowErr.Variables)
	require.Equal(t, "Sum: missing variable(s): a, b and c", err.Error())
}

func TestFatalWrapsCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("disk gone")
	err := NewFatalError("Map", "unable to continue", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrFatal)
	require.Equal(t, "Map: unable to continue: disk gone", err.Error())
}

func TestKindOfForeignError(t *testing.T) {
	t.Parallel()

	_, ok := KindOf(stdErrors.New("plain"))
	require.False(t, ok)
}

func TestHumanJoin(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", HumanJoin(nil, "and"))
	require.Equal(t, "a", HumanJoin([]string{"a"}, "and"))
	require.Equal(t, "a or b", HumanJoin([]string{"a", "b"}, "or"))
	require.Equal(t, "a, b and c", HumanJoin([]string{"a", "b", "c"}, "and"))
}
