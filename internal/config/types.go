package config

// Settings holds the runtime parameters of the flow command line.
type Settings struct {
	Log       LogSettings      `yaml:"log,omitempty"`
	Parallel  ParallelSettings `yaml:"parallel,omitempty"`
	Trace     TraceSettings    `yaml:"trace,omitempty"`
	Metrics   MetricsSettings  `yaml:"metrics,omitempty"`
	History   HistorySettings  `yaml:"history,omitempty"`
	Variables map[string]any   `yaml:"variables,omitempty" validate:"omitempty,dive,keys,var_name,endkeys"`
}

// LogSettings configures the engine logger.
type LogSettings struct {
	Level         string `yaml:"level,omitempty" validate:"omitempty,log_level"`
	HumanReadable *bool  `yaml:"human_readable,omitempty"`
}

// ParallelSettings bounds the worker pools used by parallel map nodes.
type ParallelSettings struct {
	Workers int `yaml:"workers,omitempty" validate:"omitempty,min=1,max=64"`
}

// TraceSettings controls how failure traces are captured and rendered.
type TraceSettings struct {
	Full           bool     `yaml:"full,omitempty"`
	SensitiveWords []string `yaml:"sensitive_words,omitempty" validate:"omitempty,dive,required"`
}

// MetricsSettings toggles prometheus collection for a run.
type MetricsSettings struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// HistorySettings locates the run history file. An empty path disables recording.
type HistorySettings struct {
	Path  string `yaml:"path,omitempty"`
	Limit int    `yaml:"limit,omitempty" validate:"omitempty,min=1,max=10000"`
}

// DefaultSensitiveWords lists the variable name fragments masked in rendered traces.
var DefaultSensitiveWords = []string{"credential", "authorization", "token", "secret", "password"}

// DefaultSettings returns the settings used when no file is supplied.
func DefaultSettings() Settings {
	return Settings{
		Log: LogSettings{Level: "info"},
		Trace: TraceSettings{
			SensitiveWords: append([]string(nil), DefaultSensitiveWords...),
		},
	}
}

// applyDefaults fills zero values left by a partial settings file.
func (s *Settings) applyDefaults() {
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if len(s.Trace.SensitiveWords) == 0 {
		s.Trace.SensitiveWords = append([]string(nil), DefaultSensitiveWords...)
	}
}

// HumanReadableLogs resolves the console preference, falling back to interactive when unset.
func (s Settings) HumanReadableLogs(interactive bool) bool {
	if s.Log.HumanReadable == nil {
		return interactive
	}
	return *s.Log.HumanReadable
}
