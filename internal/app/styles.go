package app

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Faint(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// nullCell is how SQL NULL is shown in table output.
const nullCell = "NULL"
