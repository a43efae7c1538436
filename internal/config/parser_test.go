package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	flowerrors "github.com/alexisbeaulieu97/flow/pkg/errors"
)

func TestParseSettings(t *testing.T) {
	t.Parallel()

	validYAML := `log:
  level: debug
  human_readable: false
parallel:
  workers: 4
trace:
  full: true
history:
  path: /tmp/flow/history.json
  limit: 50
variables:
  greeting: hello
  count: 3
`

	invalidYAML := `parallel:
  workers: [1, 2]
`

	badLevel := `log:
  level: verbose
`

	tooManyWorkers := `parallel:
  workers: 500
`

	badVariable := `variables:
  "not a name": 1
`

	cases := []struct {
		name     string
		contents string
		assert   func(t *testing.T, settings Settings, err error)
	}{
		{
			name:     "valid settings are parsed",
			contents: validYAML,
			assert: func(t *testing.T, settings Settings, err error) {
				require.NoError(t, err)
				require.Equal(t, "debug", settings.Log.Level)
				require.False(t, settings.HumanReadableLogs(true))
				require.Equal(t, 4, settings.Parallel.Workers)
				require.True(t, settings.Trace.Full)
				require.Equal(t, "/tmp/flow/history.json", settings.History.Path)
				require.Equal(t, 50, settings.History.Limit)
				require.Equal(t, DefaultSensitiveWords, settings.Trace.SensitiveWords)
				require.Equal(t, "hello", settings.Variables["greeting"])
				require.Equal(t, 3, settings.Variables["count"])
			},
		},
		{
			name:     "invalid yaml returns parse error",
			contents: invalidYAML,
			assert: func(t *testing.T, _ Settings, err error) {
				var parseErr *flowerrors.ParseError
				require.ErrorAs(t, err, &parseErr)
				require.Contains(t, parseErr.Message, "cannot unmarshal")
				require.Equal(t, 2, parseErr.Line)
			},
		},
		{
			name:     "unknown log level is rejected",
			contents: badLevel,
			assert: func(t *testing.T, _ Settings, err error) {
				var validationErr *flowerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "log.level", validationErr.Field)
				require.Contains(t, validationErr.Message, "log_level")
			},
		},
		{
			name:     "worker count is bounded",
			contents: tooManyWorkers,
			assert: func(t *testing.T, _ Settings, err error) {
				var validationErr *flowerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Equal(t, "parallel.workers", validationErr.Field)
			},
		},
		{
			name:     "variable names must be identifiers",
			contents: badVariable,
			assert: func(t *testing.T, _ Settings, err error) {
				var validationErr *flowerrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				require.Contains(t, validationErr.Message, "var_name")
			},
		},
		{
			name:     "empty file falls back to defaults",
			contents: "",
			assert: func(t *testing.T, settings Settings, err error) {
				require.NoError(t, err)
				require.Equal(t, DefaultSettings(), settings)
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeTempSettings(t, tc.contents)
			settings, err := ParseSettings(path)
			tc.assert(t, settings, err)
		})
	}
}

func TestParseSettingsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseSettings(filepath.Join(t.TempDir(), "missing.yaml"))

	var parseErr *flowerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Zero(t, parseErr.Line)
}

func TestLoadSettingsWithoutPath(t *testing.T) {
	t.Parallel()

	settings, err := LoadSettings("")
	require.NoError(t, err)
	require.Equal(t, "info", settings.Log.Level)
	require.True(t, settings.HumanReadableLogs(true))
	require.False(t, settings.HumanReadableLogs(false))
}

func TestGetValidatorIsShared(t *testing.T) {
	t.Parallel()

	require.Same(t, GetValidator(), GetValidator())
}

func TestValidateSettingsNil(t *testing.T) {
	t.Parallel()

	var validationErr *flowerrors.ValidationError
	require.ErrorAs(t, ValidateSettings(nil), &validationErr)
}

func writeTempSettings(t *testing.T, contents string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "flow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}
