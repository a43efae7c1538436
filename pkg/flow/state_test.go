package flow

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

func TestStatePushClonesTopFrame(t *testing.T) {
	t.Parallel()

	s := NewState(map[string]any{"a": 1})
	s.Push()
	require.Equal(t, 2, s.Depth())

	value, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, 1, value)

	s.Set("a", 2)
	s.Set("b", 3)
	require.NoError(t, s.Pop())

	value, err = s.Get("a")
	require.NoError(t, err)
	require.Equal(t, 1, value)
	require.False(t, s.Has("b"))
}

func TestStatePopRootFails(t *testing.T) {
	t.Parallel()

	s := NewState(nil)
	err := s.Pop()
	require.ErrorIs(t, err, flowerrors.ErrEmptyScope)
	require.ErrorIs(t, err, flowerrors.ErrRuntime)
	require.Equal(t, 1, s.Depth())
}

func TestStateGetMissing(t *testing.T) {
	t.Parallel()

	s := NewState(nil)
	_, err := s.Get("missing")

	var flowErr *flowerrors.Error
	require.ErrorAs(t, err, &flowErr)
	require.Equal(t, flowerrors.KindMissingVariable, flowErr.Kind)
	require.Equal(t, []string{"missing"}, flowErr.Variables)
}

func TestStateSetGlobalWritesEveryFrame(t *testing.T) {
	t.Parallel()

	s := NewState(nil)
	s.Push()
	s.Push()
	s.SetGlobal("g", "x")
	require.NoError(t, s.Pop())
	require.NoError(t, s.Pop())

	value, err := s.Get("g")
	require.NoError(t, err)
	require.Equal(t, "x", value)
}

func TestStateDeleteAndOrder(t *testing.T) {
	t.Parallel()

	s := NewState(map[string]any{"b": 2, "a": 1})
	s.Set("c", 3)
	require.True(t, s.Delete("b"))
	require.False(t, s.Delete("b"))

	require.Equal(t, []Var{{Name: "a", Value: 1}, {Name: "c", Value: 3}}, s.Vars())
	require.Equal(t, map[string]any{"a": 1, "c": 3}, s.Map())
	require.Equal(t, 2, s.Len())
}

func TestListIsSharedAcrossScopes(t *testing.T) {
	t.Parallel()

	s := NewState(map[string]any{"items": NewList()})
	s.Push()
	value, err := s.Get("items")
	require.NoError(t, err)
	value.(*List).Append("inner")
	require.NoError(t, s.Pop())

	value, err = s.Get("items")
	require.NoError(t, err)
	require.Equal(t, []any{"inner"}, value.(*List).Items())
}

func TestScopeIsolationProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		base := rapid.MapOf(rapid.StringMatching(`[a-e]`), rapid.Int()).Draw(t, "base")
		writes := rapid.MapOf(rapid.StringMatching(`[a-h]`), rapid.Int()).Draw(t, "writes")

		seed := make(map[string]any, len(base))
		for name, value := range base {
			seed[name] = value
		}

		s := NewState(seed)
		s.Push()
		for name, value := range writes {
			s.Set(name, value)
		}
		for name, value := range writes {
			got, err := s.Get(name)
			if err != nil || got != any(value) {
				t.Fatalf("write to %s not visible in scope", name)
			}
		}
		if err := s.Pop(); err != nil {
			t.Fatal(err)
		}

		if len(s.Map()) != len(base) {
			t.Fatalf("parent scope changed: %v", s.Map())
		}
		for name, value := range base {
			got, err := s.Get(name)
			if err != nil || got != any(value) {
				t.Fatalf("parent value %s changed", name)
			}
		}
	})
}
