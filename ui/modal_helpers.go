package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// ModalType determines the color and styling of a modal
type ModalType int

const (
	ModalTypeInfo ModalType = iota
	ModalTypeWarning
	ModalTypeError
)

const defaultModalWidth = 60

func (t ModalType) color() lipgloss.Color {
	switch t {
	case ModalTypeWarning:
		return warningColor
	case ModalTypeError:
		return dangerColor
	default:
		return accentColor
	}
}

// modalWidthFor fits desired (0 = default) into a terminal width columns wide.
func modalWidthFor(desired, width int) int {
	if desired == 0 {
		desired = defaultModalWidth
	}
	if width < desired+10 {
		desired = width - 10
	}
	return max(desired, 10)
}

// centeredLines wraps message to the modal width and centers each line.
func centeredLines(message string, modalWidth int) []string {
	style := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)
	var lines []string
	for _, line := range strings.Split(wordWrap(message, modalWidth-2), "\n") {
		lines = append(lines, style.Render(line))
	}
	return lines
}

// RenderAcknowledgeModal renders a modal that is dismissed with Enter.
// Reconciler failures (rolled-back comments and likes, unreadable
// attachments) are surfaced through it.
func RenderAcknowledgeModal(title, message string, modalType ModalType, width, height int) string {
	modalWidth := modalWidthFor(0, width)
	return RenderThreeSectionModal(title, centeredLines(message, modalWidth), "Press Enter to acknowledge", modalType, modalWidth, width, height)
}

// RenderThreeSectionModal renders a borderless modal: a title, then the
// message, then the footer, separated by top borders.
// messageLines are rendered as given, with a blank line above and below.
// desiredWidth: preferred modal width (0 = default 60)
func RenderThreeSectionModal(title string, messageLines []string, footer string, modalType ModalType, desiredWidth, width, height int) string {
	modalWidth := modalWidthFor(desiredWidth, width)

	// Centered by hand; lipgloss miscounts some emoji
	titleWidth := runewidth.StringWidth(title)
	leftPad := max((modalWidth-titleWidth)/2, 0)
	rightPad := max(modalWidth-titleWidth-leftPad, 0)
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(modalType.color()).
		Render(strings.Repeat(" ", leftPad) + title + strings.Repeat(" ", rightPad))

	blank := strings.Repeat(" ", modalWidth)
	body := make([]string, 0, len(messageLines)+2)
	body = append(body, blank)
	body = append(body, messageLines...)
	body = append(body, blank)

	divider := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth)

	messageSection := divider.Render(strings.Join(body, "\n"))
	footerSection := divider.
		Foreground(dimColor).
		Align(lipgloss.Center).
		Render(footer)

	content := strings.Join([]string{titleSection, messageSection, footerSection}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// wordWrap wraps text to width terminal cells, keeping explicit newlines.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line := words[0]
		for _, word := range words[1:] {
			if runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// truncate cuts s to width terminal cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
