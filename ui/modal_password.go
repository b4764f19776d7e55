package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// ===== INPUT CREATION =====

// NewPasswordInput creates a masked textinput for comment passwords.
// Used by the compose form and the delete prompt.
func NewPasswordInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 40
	input.CharLimit = 72 // bcrypt ignores anything longer
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

// ===== RENDERING =====

// RenderPasswordModal asks for the password a comment was posted with.
func RenderPasswordModal(
	title string,
	author string,
	passwordInput textinput.Model,
	errorMsg string,
	width int,
	height int,
) string {
	// Guard clause: prevent rendering in tiny terminals or before WindowSizeMsg
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := 60
	if width < modalWidth+10 {
		modalWidth = width - 10
		if modalWidth < 10 {
			modalWidth = 10
		}
	}

	var messageLines []string
	messageLines = append(messageLines, centerTextLine("Deleting the comment by "+author+".", modalWidth))
	messageLines = append(messageLines, centerTextLine("Enter the password it was posted with:", modalWidth))
	messageLines = append(messageLines, strings.Repeat(" ", modalWidth))

	messageLines = append(messageLines, centerTextLine(passwordInput.View(), modalWidth))

	if errorMsg != "" {
		messageLines = append(messageLines, strings.Repeat(" ", modalWidth))
		styledErr := lipgloss.NewStyle().
			Foreground(dangerColor).
			Bold(true).
			Render("⚠ " + errorMsg)
		messageLines = append(messageLines, centerTextLine(styledErr, modalWidth))
	}

	footer := FormatFooter("Enter", "Delete", "Esc", "Cancel")

	return RenderThreeSectionModal(
		title,
		messageLines,
		footer,
		ModalTypeWarning,
		modalWidth,
		width,
		height,
	)
}

// centerTextLine centers a line of text within a given width
func centerTextLine(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}

	leftPad := (width - textWidth) / 2
	rightPad := width - textWidth - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}
