package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// Options controls trace rendering.
type Options struct {
	Theme          Theme
	SensitiveWords []string
	// Full lists every visited node and the scope variables instead of only
	// the path to the failure.
	Full bool
}

// Trace renders a captured failure trace. A nil trace renders as an empty string.
func Trace(trace *flow.FlowTrace, opts Options) string {
	if trace == nil || len(trace.Scopes) == 0 {
		return ""
	}

	theme := opts.Theme
	var b strings.Builder
	b.WriteString(theme.Title.Render("Failure trace"))
	b.WriteString("\n")

	for depth, scope := range trace.Scopes {
		if !opts.Full {
			if len(scope.Trace) == 0 {
				continue
			}
			last := scope.Trace[len(scope.Trace)-1]
			fmt.Fprintf(&b, "%s%s\n", strings.Repeat("  ", depth), entryLine(theme, last, opts.SensitiveWords))
			continue
		}

		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s\n", indent, theme.Scope.Render(fmt.Sprintf("scope %d", depth)))
		for _, entry := range scope.Trace {
			fmt.Fprintf(&b, "%s  - %s\n", indent, entryLine(theme, entry, opts.SensitiveWords))
		}
		if vars := MaskVars(scope.Vars, opts.SensitiveWords); len(vars) > 0 {
			fmt.Fprintf(&b, "%s  vars: %s\n", indent, strings.Join(lo.Map(vars, func(v flow.Var, _ int) string {
				return pair(theme, v.Name, v.Value, opts.SensitiveWords)
			}), ", "))
		}
	}

	return b.String()
}

func entryLine(theme Theme, entry flow.TraceEntry, words []string) string {
	line := theme.Node.Render(entry.Node) + " " + theme.status(entry.Status)
	args := MaskArgs(entry.Args, words)
	if len(args) == 0 {
		return line
	}
	keys := lo.Keys(args)
	slices.Sort(keys)
	return line + " " + strings.Join(lo.Map(keys, func(key string, _ int) string {
		return pair(theme, key, args[key], words)
	}), " ")
}

func pair(theme Theme, key string, value any, words []string) string {
	rendered := fmt.Sprintf("%v", value)
	if IsSensitive(key, words) {
		rendered = theme.Masked.Render(MaskedValue)
	}
	return theme.Key.Render(key) + "=" + rendered
}
