package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

func sampleTrace() *flow.FlowTrace {
	return &flow.FlowTrace{Scopes: []flow.ScopeSnapshot{
		{
			Vars: []flow.Var{{Name: "api_token", Value: "abc"}, {Name: "user", Value: "ada"}},
			Trace: []flow.TraceEntry{
				{Node: "Set value(s) for user", Status: flow.StatusCompleted},
				{Node: "Login", Status: flow.StatusFailed},
			},
		},
		{
			Vars: []flow.Var{{Name: "Password", Value: "hunter2"}},
			Trace: []flow.TraceEntry{
				{Node: "Check", Args: map[string]any{"secret_key": "xyz", "attempt": 2}, Status: flow.StatusFailed},
			},
		},
	}}
}

func TestIsSensitive(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		expected bool
	}{
		{"password", true},
		{"DB_PASSWORD", true},
		{"authorization_header", true},
		{"username", false},
		{"tokenizer", true},
		{"", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.expected, IsSensitive(tc.name, []string{"password", "authorization", "token"}), tc.name)
	}
}

func TestMaskVarsLeavesInputUntouched(t *testing.T) {
	t.Parallel()

	vars := []flow.Var{{Name: "secret", Value: 1}, {Name: "open", Value: 2}}
	masked := MaskVars(vars, []string{"secret"})

	require.Equal(t, []flow.Var{{Name: "secret", Value: MaskedValue}, {Name: "open", Value: 2}}, masked)
	require.Equal(t, 1, vars[0].Value)
}

func TestMaskArgs(t *testing.T) {
	t.Parallel()

	require.Nil(t, MaskArgs(nil, []string{"secret"}))
	require.Equal(t,
		map[string]any{"client_secret": MaskedValue, "id": 7},
		MaskArgs(map[string]any{"client_secret": "s", "id": 7}, []string{"secret"}),
	)
}

func TestTracePathOnly(t *testing.T) {
	t.Parallel()

	out := Trace(sampleTrace(), Options{Theme: PlainTheme(), SensitiveWords: []string{"secret", "password", "token"}})

	require.Equal(t, "Failure trace\n"+
		"Login [failed]\n"+
		"  Check [failed] attempt=2 secret_key=****\n", out)
}

func TestTraceFullMasksVariables(t *testing.T) {
	t.Parallel()

	out := Trace(sampleTrace(), Options{Theme: PlainTheme(), SensitiveWords: []string{"secret", "password", "token"}, Full: true})

	require.Equal(t, "Failure trace\n"+
		"scope 0\n"+
		"  - Set value(s) for user [completed]\n"+
		"  - Login [failed]\n"+
		"  vars: api_token=****, user=ada\n"+
		"  scope 1\n"+
		"    - Check [failed] attempt=2 secret_key=****\n"+
		"    vars: Password=****\n", out)
	require.NotContains(t, out, "hunter2")
}

func TestTraceEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Trace(nil, Options{Theme: PlainTheme()}))
	require.Empty(t, Trace(&flow.FlowTrace{}, Options{Theme: PlainTheme()}))
}

func TestTraceDefaultThemeKeepsContent(t *testing.T) {
	t.Parallel()

	out := Trace(sampleTrace(), Options{Theme: DefaultTheme(), SensitiveWords: []string{"secret"}})

	require.Contains(t, out, "Login")
	require.Contains(t, out, "failed")
	require.NotContains(t, out, "xyz")
}

func TestDescription(t *testing.T) {
	t.Parallel()

	w := flow.NewWorkflow("demo").Nodes(
		flow.If("ready").True(flow.LogMessage("go", "info")).False(flow.Failed("not ready")),
	)

	require.Equal(t, "demo (sequence)\n"+
		"  Conditional branch (multi-branch)\n"+
		"    [true] Log Message 'go'\n"+
		"    [false] Failed\n", Description(w, PlainTheme()))
}

func TestThemeFor(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, ThemeFor(true).Status)
	require.Empty(t, ThemeFor(false).Status)
}

func TestVarsDiff(t *testing.T) {
	t.Parallel()

	before := []flow.Var{{Name: "b", Value: 2}, {Name: "a", Value: 1}, {Name: "password", Value: "x"}}
	after := []flow.Var{{Name: "a", Value: 1}, {Name: "b", Value: 3}, {Name: "password", Value: "y"}, {Name: "t", Value: 4}}

	out := VarsDiff(before, after, Options{Theme: PlainTheme(), SensitiveWords: []string{"password"}})
	require.Equal(t, "--- input\n"+
		"+++ output\n"+
		" a = 1\n"+
		"-b = 2\n"+
		"+b = 3\n"+
		" password = ****\n"+
		"+t = 4\n", out)
}

func TestVarsDiffIdentical(t *testing.T) {
	t.Parallel()

	vars := []flow.Var{{Name: "a", Value: 1}}
	require.Empty(t, VarsDiff(vars, vars, Options{Theme: PlainTheme()}))
}
