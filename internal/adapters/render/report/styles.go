package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	separator  lipgloss.Style
	name       lipgloss.Style
	typeNew    lipgloss.Style
	typeUpdate lipgloss.Style
	detail     lipgloss.Style
	empty      lipgloss.Style
}

func newStyles() styles {
	return styles{
		separator:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		name:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		typeNew:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		typeUpdate: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:      lipgloss.NewStyle().Faint(true),
	}
}
