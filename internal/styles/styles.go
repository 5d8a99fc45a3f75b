// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package styles holds the lipgloss styles used for CLI output. Styles
// render as plain text when the output is not a terminal.
package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro palette
const (
	Red     = "#FF6188"
	Orange  = "#FC9867"
	Green   = "#A9DC76"
	Magenta = "#FF6188"
	Comment = "#727072"
)

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
)
