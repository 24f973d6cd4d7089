package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ------- styling helpers (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	subtitleStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	errorBoxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().Faint(true).Padding(1, 2)
)

// pane frames a section; the focused one gets the accent border.
func pane(inner string, focused bool, width int) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	if focused {
		border = border.BorderForeground(lipgloss.Color("12"))
	}
	if width > 4 {
		border = border.Width(width - 2)
	}
	return border.Render(inner)
}
