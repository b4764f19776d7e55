package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"paperhub/config"
	appmodel "paperhub/model"
)

// handleStreamingMessage handles chat, attachment and backend messages. ok
// is false when msg belongs to another handler.
func (a AppView) handleStreamingMessage(msg tea.Msg) (AppView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case streamChunkMsg:
		cmd := a.dataModel.ApplyStream(msg)
		if a.mode == viewChat {
			a.updateViewportContent(true)
		}
		return a, cmd, true

	case streamDoneMsg:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Turn %s finished (err=%v)", msg.TurnID, msg.Err)
		}
		a.dataModel.ApplyStream(msg)

		var cmd tea.Cmd
		messages := a.dataModel.Session.Messages()
		if n := len(messages); n > 0 {
			last := messages[n-1]
			if last.Role == appmodel.RoleAssistant && last.Content != "" {
				cmd = a.renderMarkdownAsync(last.ID, last.Content)
			}
		}
		a.updateViewportContent(true)
		return a, cmd, true

	case markdownRenderedMsg:
		a.rendered[msg.MessageID] = msg.Rendered
		if a.mode == viewChat {
			a.updateViewportContent(false)
		}
		return a, nil, true

	case loadProgressMsg:
		a.loadProgress = msg
		a.loadingModel = msg.Percent < 100
		if a.mode == viewChat {
			a.updateViewportContent(false)
		}
		return a, a.dataModel.WaitForProgress(), true

	case attachDoneMsg:
		a.attachPicker.Reset()
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Attaching %s failed: %v", msg.FileName, msg.Err)
			}
			a.showError("Attachment Failed", msg.Err)
			return a, nil, true
		}
		a.flash = UserStyle.Render("Attached " + msg.FileName)
		a.updateViewportContent(true)
		return a, appmodel.FlashTick(), true

	case pingBackendMsg:
		a.backendOK = msg.Valid
		a.backendErr = ""
		if msg.Err != nil {
			a.backendErr = msg.Err.Error()
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Backend ping for %s failed: %v", msg.Model, msg.Err)
			}
		}
		return a, nil, true

	case modelsMsg:
		a.modelList = msg.Models
		a.modelListErr = ""
		if msg.Err != nil {
			a.modelListErr = msg.Err.Error()
		}
		current := a.dataModel.Provider.GetModel()
		for i, m := range a.modelList {
			if m.Name == current {
				a.selectedModelIdx = i
				break
			}
		}
		return a, nil, true
	}
	return a, nil, false
}
