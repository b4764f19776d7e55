package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette indexes so the UI follows the terminal's theme. No style sets
// a background.
var (
	dimColor       = lipgloss.Color("7")
	accentColor    = lipgloss.Color("12")
	successColor   = lipgloss.Color("10")
	warningColor   = lipgloss.Color("11")
	dangerColor    = lipgloss.Color("9")
	highlightColor = lipgloss.Color("13")
)

var (
	UserStyle      = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	AssistantStyle = lipgloss.NewStyle().Foreground(accentColor)
	DimStyle       = lipgloss.NewStyle().Foreground(dimColor)
	BorderStyle    = lipgloss.NewStyle().Foreground(dimColor)
	StatusStyle    = lipgloss.NewStyle().Foreground(dimColor)
	TitleStyle     = lipgloss.NewStyle().Bold(true)
	SelectedStyle  = lipgloss.NewStyle().Foreground(warningColor).Bold(true)
	HighlightStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
	ErrorStyle     = lipgloss.NewStyle().Foreground(dangerColor).Bold(true)

	// Catalog category and view tabs.
	LabelStyle     = lipgloss.NewStyle().Foreground(highlightColor)
	TabStyle       = lipgloss.NewStyle().Foreground(dimColor).Padding(0, 1)
	ActiveTabStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true).Underline(true).Padding(0, 1)

	footerDescStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
)

// FormatFooter pairs up keys and descriptions:
// FormatFooter("j/k", "Navigate", "Esc", "Close") renders
// "j/k Navigate  Esc Close" with the descriptions in the accent color.
// A trailing key without a description is dropped.
func FormatFooter(parts ...string) string {
	pairs := make([]string, 0, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		pairs = append(pairs, parts[i]+" "+footerDescStyle.Render(parts[i+1]))
	}
	return strings.Join(pairs, "  ")
}
