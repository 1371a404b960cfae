package repl

import "github.com/charmbracelet/lipgloss"

type styles struct {
	you       lipgloss.Style
	assistant lipgloss.Style
	errLabel  lipgloss.Style
}

func newStyles(styled bool) styles {
	if !styled {
		plain := lipgloss.NewStyle()
		return styles{you: plain, assistant: plain, errLabel: plain}
	}

	return styles{
		you:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87ceeb")),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1")),
		errLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5555")),
	}
}
