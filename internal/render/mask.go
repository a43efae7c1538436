package render

import (
	"strings"

	"github.com/samber/lo"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// MaskedValue replaces the value of sensitive variables.
const MaskedValue = "****"

// IsSensitive reports whether name contains any of the sensitive words, ignoring case.
func IsSensitive(name string, words []string) bool {
	lowered := strings.ToLower(name)
	return lo.SomeBy(words, func(word string) bool {
		return word != "" && strings.Contains(lowered, strings.ToLower(word))
	})
}

// MaskVars returns a copy of vars with sensitive values replaced by MaskedValue.
func MaskVars(vars []flow.Var, words []string) []flow.Var {
	return lo.Map(vars, func(v flow.Var, _ int) flow.Var {
		if IsSensitive(v.Name, words) {
			return flow.Var{Name: v.Name, Value: MaskedValue}
		}
		return v
	})
}

// MaskArgs returns a copy of args with sensitive values replaced by MaskedValue.
func MaskArgs(args map[string]any, words []string) map[string]any {
	if args == nil {
		return nil
	}
	return lo.MapValues(args, func(value any, key string) any {
		if IsSensitive(key, words) {
			return MaskedValue
		}
		return value
	})
}
