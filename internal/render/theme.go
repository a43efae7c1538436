package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/flow/pkg/flow"
)

// Theme groups the styles used to render traces and workflow trees.
type Theme struct {
	Title  lipgloss.Style
	Scope  lipgloss.Style
	Node   lipgloss.Style
	Label  lipgloss.Style
	Kind   lipgloss.Style
	Key    lipgloss.Style
	Masked lipgloss.Style
	Status map[flow.Status]lipgloss.Style
}

// DefaultTheme returns the coloured theme used on interactive terminals.
func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3b82f6")),
		Scope:  lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b")),
		Node:   lipgloss.NewStyle().Bold(true),
		Label:  lipgloss.NewStyle().Foreground(lipgloss.Color("#a855f7")),
		Kind:   lipgloss.NewStyle().Faint(true),
		Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("#06b6d4")),
		Masked: lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		Status: map[flow.Status]lipgloss.Style{
			flow.StatusRunning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")),
			flow.StatusCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")),
			flow.StatusFailed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444")),
			flow.StatusSkipped:   lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		},
	}
}

// PlainTheme renders text without any styling.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:  plain,
		Scope:  plain,
		Node:   plain,
		Label:  plain,
		Kind:   plain,
		Key:    plain,
		Masked: plain,
	}
}

// ThemeFor picks DefaultTheme for terminals and PlainTheme otherwise.
func ThemeFor(interactive bool) Theme {
	if interactive {
		return DefaultTheme()
	}
	return PlainTheme()
}

func (t Theme) statusStyle(s flow.Status) lipgloss.Style {
	style, ok := t.Status[s]
	if !ok {
		return lipgloss.NewStyle()
	}
	return style
}

func (t Theme) status(s flow.Status) string {
	return t.statusStyle(s).Render("[" + s.String() + "]")
}
