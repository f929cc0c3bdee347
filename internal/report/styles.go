package report

import "github.com/charmbracelet/lipgloss/v2"

// Style definitions for the text report.
var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// painter applies styles only when color output is enabled.
type painter struct {
	color bool
}

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
