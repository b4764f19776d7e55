package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	keys  [][2]string
}

var (
	helpLeft = []helpSection{
		{"Global", [][2]string{
			{"Tab", "Next view"},
			{"Shift+Tab", "Previous view"},
			{"Alt+H", "Toggle this help"},
			{"Alt+A", "About"},
			{"Alt+Q", "Quit"},
		}},
		{"Chat", [][2]string{
			{"Enter", "Send message"},
			{"Alt+Enter", "New line"},
			{"Esc", "Stop the reply"},
			{"Alt+O", "Attach PDF/text"},
			{"Alt+X", "Remove attachment"},
			{"Alt+N", "New conversation"},
			{"Alt+M", "Models"},
			{"Alt+Y", "Copy last response"},
			{"PgUp/PgDn", "Scroll"},
		}},
	}
	helpRight = []helpSection{
		{"Tools", [][2]string{
			{"j/k", "Move"},
			{"c", "Next category"},
			{"/", "Search"},
			{"f", "Toggle favorite"},
			{"Enter", "Open details"},
			{"y", "Copy link"},
		}},
		{"Tool Details", [][2]string{
			{"l", "Like"},
			{"i", "Write a comment"},
			{"j/k", "Select comment"},
			{"d", "Delete comment"},
			{"e", "Use built-in tool"},
			{"Ctrl+P/Ctrl+Y", "%p mode / copy result"},
			{"y", "Copy link"},
			{"Esc", "Back to tools"},
		}},
		{"Desk", [][2]string{
			{"Space", "Start/stop focus timer"},
			{"r", "Reset focus time"},
			{"j/k", "Select to-do"},
			{"t", "Add to-do"},
			{"x", "Toggle to-do"},
			{"D", "Remove to-do"},
			{"m", "Edit memo"},
			{"g", "Edit goal"},
			{"z", "AoE/local clock"},
		}},
	}
)

var (
	helpTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(successColor)
	helpHeadingStyle = lipgloss.NewStyle().Foreground(accentColor)
	helpColumnStyle  = lipgloss.NewStyle().Width(42).PaddingLeft(4)
	helpBoxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(1, 2).
			Width(100)
)

func renderHelpColumn(sections []helpSection) string {
	var lines []string
	for i, s := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, helpHeadingStyle.Render("## "+s.title))
		for _, k := range s.keys {
			lines = append(lines, fmt.Sprintf("• %-13s %s", k[0], k[1]))
		}
	}
	return helpColumnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderHelpModal(width, height int) string {
	columns := lipgloss.JoinHorizontal(lipgloss.Top, renderHelpColumn(helpLeft), "    ", renderHelpColumn(helpRight))
	content := lipgloss.JoinVertical(lipgloss.Center,
		helpTitleStyle.Render("PaperHub - Keyboard Shortcuts"),
		"",
		columns,
		"",
		DimStyle.Render("Press Alt+H or Esc to close this help"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, helpBoxStyle.Render(content))
}
