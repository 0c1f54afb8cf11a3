// Package styles centralizes terminal styling for the CLI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	ColorMuted   = lipgloss.Color("#656d76") // muted/dim text
	ColorAccent  = lipgloss.Color("#0969da") // accent blue
	ColorError   = lipgloss.Color("#cf222e") // error red
	ColorSuccess = lipgloss.Color("#1a7f37") // success green
	ColorWarning = lipgloss.Color("#9a6700") // warning amber
)

var (
	Heading = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	Bold    = lipgloss.NewStyle().Bold(true)
	Dim     = lipgloss.NewStyle().Foreground(ColorMuted)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning = lipgloss.NewStyle().Foreground(ColorWarning)
	Error   = lipgloss.NewStyle().Foreground(ColorError)
)
