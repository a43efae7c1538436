package render

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// VarsDiff renders the line changes between two variable listings, one
// "name = value" line per variable in name order. Sensitive values are masked
// on both sides. Identical listings render as an empty string.
func VarsDiff(before, after []flow.Var, opts Options) string {
	expected := varLines(MaskVars(before, opts.SensitiveWords))
	actual := varLines(MaskVars(after, opts.SensitiveWords))
	if slices.Equal(expected, actual) {
		return ""
	}

	// Each distinct line becomes one rune so the diff works on whole lines.
	var table []string
	index := make(map[string]rune)
	encode := func(lines []string) []rune {
		return lo.Map(lines, func(line string, _ int) rune {
			r, ok := index[line]
			if !ok {
				r = lineRuneBase + rune(len(table))
				index[line] = r
				table = append(table, line)
			}
			return r
		})
	}
	diffs := diffmatchpatch.New().DiffMainRunes(encode(expected), encode(actual), false)

	theme := opts.Theme
	var b strings.Builder
	b.WriteString(theme.Title.Render("--- input"))
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("+++ output"))
	b.WriteString("\n")

	for _, d := range diffs {
		prefix, style := " ", theme.Node
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, style = "-", theme.statusStyle(flow.StatusFailed)
		case diffmatchpatch.DiffInsert:
			prefix, style = "+", theme.statusStyle(flow.StatusCompleted)
		}
		for _, r := range d.Text {
			b.WriteString(style.Render(prefix + table[r-lineRuneBase]))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// lineRuneBase starts the private use area so encoded lines are valid runes.
const lineRuneBase = 0xF0000

func varLines(vars []flow.Var) []string {
	sorted := slices.SortedFunc(slices.Values(vars), func(a, b flow.Var) int {
		return strings.Compare(a.Name, b.Name)
	})
	return lo.Map(sorted, func(v flow.Var, _ int) string {
		return fmt.Sprintf("%s = %v", v.Name, v.Value)
	})
}
