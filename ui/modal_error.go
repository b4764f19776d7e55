package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ErrorModal is a standalone program for errors that stop PaperHub before
// the main view starts, such as an unreadable config or prefs file.
type ErrorModal struct {
	title   string
	message string
	width   int
	height  int
}

func NewErrorModal(title, message string) ErrorModal {
	return ErrorModal{
		title:   title,
		message: message,
	}
}

func (m ErrorModal) Init() tea.Cmd {
	return nil
}

func (m ErrorModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ErrorModal) View() string {
	if m.width < 20 || m.height < 10 {
		return m.title + ": " + m.message
	}
	modalWidth := modalWidthFor(0, m.width)
	return RenderThreeSectionModal(m.title, centeredLines(m.message, modalWidth), "Press Enter to quit", ModalTypeError, modalWidth, m.width, m.height)
}
