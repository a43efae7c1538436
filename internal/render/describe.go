package render

import (
	"strings"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// Description renders the node tree rooted at node.
func Description(node flow.Node, theme Theme) string {
	var b strings.Builder
	for _, d := range flow.Describe(node) {
		b.WriteString(strings.Repeat("  ", d.Depth))
		if d.Label != "" {
			b.WriteString(theme.Label.Render("[" + d.Label + "]"))
			b.WriteString(" ")
		}
		b.WriteString(theme.Node.Render(d.Node.Name()))
		if d.Kind != flow.KindLeaf {
			b.WriteString(" ")
			b.WriteString(theme.Kind.Render("(" + d.Kind.String() + ")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
