package sync

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the sync TUI
type Styles struct {
	Title      lipgloss.Style
	Paragraph  lipgloss.Style
	StatusText lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Success    lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Paragraph:  lipgloss.NewStyle().Padding(0, 1),
		StatusText: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Error:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Success:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
}
