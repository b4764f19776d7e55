package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tagline = "Research tools, deadlines and an assistant for your papers"

var features = []string{
	"Curated directory of research tools with likes and comments",
	"Chat assistant over a hosted endpoint, local Ollama or a worker model",
	"Attach a PDF or text file and ask about it",
	"Focus timer, goal countdown, to-dos and memo",
}

var (
	aboutNameStyle  = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	aboutTextStyle  = lipgloss.NewStyle().Foreground(dimColor)
	aboutLabelStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Width(9)
	aboutBoxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2)
)

func renderAboutModal(width, height int, version, backend string) string {
	lines := []string{aboutNameStyle.Render("PaperHub"), DimStyle.Render(tagline), ""}
	for _, f := range features {
		lines = append(lines, aboutTextStyle.Render("• "+f))
	}
	lines = append(lines, "",
		aboutLabelStyle.Render("Version")+aboutTextStyle.Render(version),
		aboutLabelStyle.Render("Backend")+aboutTextStyle.Render(backend),
		"",
		FormatFooter("Esc", "Close", "Alt+A", "Close"),
	)

	box := aboutBoxStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
