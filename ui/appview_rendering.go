package ui

import (
	"fmt"
	"strings"

	appmodel "paperhub/model"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.dataModel.Session.Messages()
	if len(messages) == 0 {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Ask a question, or press Alt+O to attach a paper."))
		return
	}

	streaming := a.dataModel.Session.Streaming()

	var content strings.Builder
	for i, msg := range messages {
		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		switch msg.Role {
		case appmodel.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.Content))

		case appmodel.RoleAssistant:
			body := msg.Content
			inFlight := streaming && i == len(messages)-1
			switch {
			case inFlight && body == "":
				body = a.loadingSpinner.View() + " Waiting for response..."
			case inFlight:
				body += "▋"
			default:
				if r, ok := a.rendered[msg.ID]; ok {
					body = r
				}
			}
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), body))

		default:
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, DimStyle.Render("ⓘ "+msg.Content)))
		}
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

// renderAttachmentLine shows the active document, extraction progress, or
// the last turn's error as a banner above the input.
func (a AppView) renderAttachmentLine() string {
	session := a.dataModel.Session
	if err := session.Err(); err != nil {
		return ErrorStyle.Render(truncate("⚠ "+err.Error(), a.width))
	}
	if session.Attaching() {
		return DimStyle.Render(a.loadingSpinner.View() + " Reading document...")
	}
	if a.loadingModel {
		return DimStyle.Render(fmt.Sprintf("%s Loading model %.0f%% %s", a.loadingSpinner.View(), a.loadProgress.Percent, a.loadProgress.Text))
	}
	if att, ok := session.Attachment(); ok {
		return HighlightStyle.Render(truncate(fmt.Sprintf("📎 %s (%s, %d chars)  Alt+X remove", att.FileName, att.Kind, len([]rune(att.ExtractedText))), a.width))
	}
	return ""
}

// formatUserMessage prefixes every line of a user turn with a green bar.
func formatUserMessage(timestamp, role, content string) string {
	bar := UserStyle.Render("┃")
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", bar, timestamp, role)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(&b, "%s %s\n", bar, line)
	}
	b.WriteString("\n")
	return b.String()
}

