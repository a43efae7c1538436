package flow

import (
	"testing"

	"github.com/stretchr/testify/require"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

func TestRegistryRegisterAndResolve(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	node := record("x")
	require.NoError(t, Register("samples:record", node))

	resolved, err := Resolve("samples:record")
	require.NoError(t, err)
	require.Same(t, node, resolved)
	require.Equal(t, []string{"samples:record"}, Registered())
}

func TestRegistryRejectsInvalidRegistrations(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	require.ErrorIs(t, Register("samples:nil", nil), flowerrors.ErrSetup)
	require.ErrorIs(t, Register("no-namespace", record("x")), flowerrors.ErrSetup)
	require.ErrorIs(t, Register("a:b:c", record("x")), flowerrors.ErrSetup)

	require.NoError(t, Register("samples:dup", record("x")))
	require.ErrorIs(t, Register("samples:dup", record("y")), flowerrors.ErrSetup)
	require.Panics(t, func() { MustRegister("samples:dup", record("z")) })

	_, err := Resolve("samples:unknown")
	require.Error(t, err)
}

func TestRegisteredIsSorted(t *testing.T) {
	ResetRegistry()
	defer ResetRegistry()

	MustRegister("b:two", record("2"))
	MustRegister("a:one", record("1"))
	MustRegister("b:one", record("3"))

	require.Equal(t, []string{"a:one", "b:one", "b:two"}, Registered())
}
