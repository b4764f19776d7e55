package ui

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"paperhub/config"
	"paperhub/extract"
	appmodel "paperhub/model"
	"paperhub/provider"
)

// maxAttachmentBytes bounds what the attach picker will read into memory.
const maxAttachmentBytes = 32 << 20

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Update file picker if active (needs to receive ALL message types EXCEPT KeyMsg)
	// KeyMsg is handled in handleAttachPicker to check DidSelectFile before updating
	if a.attachPicker.Active && !a.attachPicker.Processing {
		if _, isKey := msg.(tea.KeyMsg); !isKey {
			a.attachPicker.Picker, cmd = a.attachPicker.Picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		a.attachPicker.Spinner = a.loadingSpinner
		if a.mode == viewChat && (a.dataModel.Session.Streaming() || a.dataModel.Session.Attaching()) {
			a.updateViewportContent(true)
		}
		return a, tea.Batch(append(cmds, cmd)...)

	case tea.WindowSizeMsg:
		widthChanged := msg.Width != a.width
		a.width = msg.Width
		a.height = msg.Height

		// Reserve space for title (1 line), separator (1 line), banner (1 line), textarea (3 lines), and status bar (1 line)
		a.viewport.Width = a.width
		a.viewport.Height = max(a.height-7, 1)
		a.textarea.SetWidth(a.width)
		a.memoInput.SetWidth(min(a.width-4, 60))

		a.ready = true
		if widthChanged {
			cmds = append(cmds, a.rerenderMarkdown()...)
		}
		a.updateViewportContent(true)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		a, cmd = a.handleKey(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case clockTickMsg:
		a.clock = msg
		if a.focusOn {
			a.focusPending += time.Second
			if a.focusPending >= focusFlushInterval {
				a.flushFocus()
			}
		}
		return a, appmodel.ClockTick()

	case prefsSavedMsg:
		a.savedAt = msg.At
		return a, a.dataModel.WaitForPrefsSaved()

	case flashTickMsg:
		a.flash = ""
		return a, nil

	case clipboardMsg:
		if msg.Err != nil {
			a.flash = ErrorStyle.Render("Copy failed: " + msg.Err.Error())
		} else {
			a.flash = UserStyle.Render("Copied " + msg.What)
		}
		return a, appmodel.FlashTick()
	}

	if next, cmd, ok := a.handleStreamingMessage(msg); ok {
		return next, tea.Batch(append(cmds, cmd)...)
	}
	if next, cmd, ok := a.handleToolMessage(msg); ok {
		return next, tea.Batch(append(cmds, cmd)...)
	}

	return a, tea.Batch(cmds...)
}

// handleKey routes a key press to the top-most modal, an active input, or
// the current view, in that order.
func (a AppView) handleKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	// PRIORITY 0: Always-global shortcuts
	switch msg.String() {
	case "alt+q", "ctrl+c":
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Quit requested")
		}
		a.dataModel.Session.Cancel()
		a.saveMemo()
		a.flushFocus()
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	// PRIORITY 1: Modals
	switch {
	case a.showAcknowledgeModal:
		if msg.String() == "enter" || msg.String() == "esc" {
			a.showAcknowledgeModal = false
		}
		return a, nil

	case a.showHelp:
		if msg.String() == "alt+h" || msg.String() == "esc" {
			a.showHelp = false
		}
		return a, nil

	case a.showPassword:
		return a.handlePasswordModal(msg)

	case a.confirmNewChat:
		switch msg.String() {
		case "y", "Y", "enter":
			a.confirmNewChat = false
			return a.startNewConversation(true)
		case "n", "N", "esc":
			a.confirmNewChat = false
		}
		return a, nil

	case a.attachPicker.Active:
		return a.handleAttachPicker(msg)

	case a.showModelSelector:
		return a.handleModelSelector(msg)

	case a.showAbout:
		if msg.String() == "alt+a" || msg.String() == "esc" {
			a.showAbout = false
		}
		return a, nil
	}

	// PRIORITY 2: Inputs that own the keyboard
	if a.capturingInput() {
		return a.handleViewKey(msg)
	}

	// PRIORITY 3: Modal toggles and view switching
	switch msg.String() {
	case "alt+h":
		a.showHelp = true
		return a, nil
	case "alt+a":
		a.showAbout = true
		return a, nil
	case "tab":
		return a.switchView(1), nil
	case "shift+tab":
		return a.switchView(-1), nil
	}

	return a.handleViewKey(msg)
}

func (a AppView) handleViewKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch a.mode {
	case viewCatalog:
		return a.handleCatalogKey(msg)
	case viewDetail:
		return a.handleDetailKey(msg)
	case viewSidebar:
		return a.handleSidebarKey(msg)
	default:
		return a.handleChatKey(msg)
	}
}

func (a AppView) capturingInput() bool {
	return a.filterMode || a.composing || a.helperMode || a.todoMode || a.memoMode || a.goalMode
}

func (a AppView) switchView(step int) AppView {
	current := a.mode
	if current == viewDetail {
		current = viewCatalog
	}
	n := len(tabNames)
	a.mode = viewMode((int(current) + step + n) % n)

	if a.mode == viewChat {
		a.textarea.Focus()
		a.updateViewportContent(true)
	} else {
		a.textarea.Blur()
	}
	return a
}

func (a AppView) handleChatKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	session := a.dataModel.Session

	switch msg.String() {
	case "enter":
		// Submitting while a reply streams is a no-op; the input is kept.
		if session.Streaming() {
			return a, nil
		}
		session.SetInput(a.textarea.Value())
		cmd, err := a.dataModel.SendTurn()
		switch {
		case errors.Is(err, appmodel.ErrAttachmentBusy):
			a.flash = DimStyle.Render("The document is still being read")
			return a, appmodel.FlashTick()
		case err != nil:
			return a, nil
		}
		a.textarea.Reset()
		a.updateViewportContent(true)
		return a, cmd

	case "esc":
		if session.Streaming() {
			session.Cancel()
		}
		return a, nil

	case "alt+o":
		a.attachPicker.Activate()
		return a, a.attachPicker.Picker.Init()

	case "alt+x":
		if session.RemoveAttachment() {
			a.flash = DimStyle.Render("Attachment removed")
			return a, appmodel.FlashTick()
		}
		return a, nil

	case "alt+n":
		return a.startNewConversation(false)

	case "alt+m":
		a.showModelSelector = true
		a.modelList = nil
		a.modelListErr = ""
		a.selectedModelIdx = 0
		return a, provider.FetchModels(a.dataModel.Provider)

	case "alt+y":
		messages := session.Messages()
		for i := len(messages) - 1; i >= 0; i-- {
			if messages[i].Role == appmodel.RoleAssistant && messages[i].Content != "" {
				return a, copyToClipboard("last response", messages[i].Content)
			}
		}
		return a, nil

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.textarea, cmd = a.textarea.Update(msg)
	return a, cmd
}

// startNewConversation clears the session. Without confirmed, a session
// that has anything to lose opens the confirmation modal instead.
func (a AppView) startNewConversation(confirmed bool) (AppView, tea.Cmd) {
	err := a.dataModel.Session.NewConversation(func() bool {
		if !confirmed {
			a.confirmNewChat = true
		}
		return confirmed
	})

	switch {
	case errors.Is(err, appmodel.ErrTurnInProgress):
		a.flash = DimStyle.Render("Wait for the reply to finish, or press Esc to stop it")
		return a, appmodel.FlashTick()
	case errors.Is(err, appmodel.ErrAttachmentBusy):
		a.flash = DimStyle.Render("Wait for the document to finish loading")
		return a, appmodel.FlashTick()
	case err != nil:
		return a, nil
	}

	a.rendered = make(map[string]string)
	a.textarea.Reset()
	a.updateViewportContent(true)
	return a, nil
}

func (a AppView) handleAttachPicker(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if msg.String() == "esc" {
		// Extraction already started keeps running; the banner shows it.
		a.attachPicker.Reset()
		return a, nil
	}
	if a.attachPicker.Processing {
		return a, nil
	}

	var cmd tea.Cmd
	a.attachPicker.Picker, cmd = a.attachPicker.Picker.Update(msg)

	if ok, path := a.attachPicker.Picker.DidSelectFile(msg); ok {
		a.attachPicker.Processing = true
		return a, a.readAttachment(path)
	}
	if ok, path := a.attachPicker.Picker.DidSelectDisabledFile(msg); ok {
		a.attachPicker.Reset()
		a.showError("Unsupported File", errors.New(filepath.Base(path)+": only PDF and plain text files are supported"))
		return a, nil
	}
	return a, cmd
}

// readAttachment loads path and hands it to the session. The MIME type is
// sniffed from the content, so a renamed binary is still rejected.
func (a AppView) readAttachment(path string) tea.Cmd {
	dm := a.dataModel
	return func() tea.Msg {
		info, err := os.Stat(path)
		if err != nil {
			return attachDoneMsg{FileName: filepath.Base(path), Err: err}
		}
		if info.Size() > maxAttachmentBytes {
			return attachDoneMsg{FileName: filepath.Base(path), Err: errors.New("file is larger than 32 MB")}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return attachDoneMsg{FileName: filepath.Base(path), Err: err}
		}

		name := filepath.Base(path)
		return dm.AttachFile(appmodel.FileInput{
			Name:     name,
			MimeType: extract.DetectMIME(name, data),
			Data:     data,
		})()
	}
}

func (a AppView) handleModelSelector(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc", "alt+m":
		a.showModelSelector = false
	case "j", "down":
		if a.selectedModelIdx < len(a.modelList)-1 {
			a.selectedModelIdx++
		}
	case "k", "up":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
	case "enter":
		if a.selectedModelIdx < len(a.modelList) {
			if a.dataModel.Session.Streaming() {
				a.flash = DimStyle.Render("Cannot switch models while a reply is streaming")
				return a, appmodel.FlashTick()
			}
			name := a.modelList[a.selectedModelIdx].Name
			a.dataModel.Provider.SetModel(name)
			a.showModelSelector = false
			a.flash = UserStyle.Render("Switched to " + name)
			return a, tea.Batch(provider.PingBackend(a.dataModel.Provider), appmodel.FlashTick())
		}
	}
	return a, nil
}

func copyToClipboard(what, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{What: what, Err: clipboard.WriteAll(text)}
	}
}

// rerenderMarkdown re-renders every finished assistant message at the
// current width.
func (a *AppView) rerenderMarkdown() []tea.Cmd {
	var cmds []tea.Cmd
	messages := a.dataModel.Session.Messages()
	streaming := a.dataModel.Session.Streaming()
	for i, msg := range messages {
		if msg.Role != appmodel.RoleAssistant || msg.Content == "" {
			continue
		}
		if streaming && i == len(messages)-1 {
			continue
		}
		cmds = append(cmds, a.renderMarkdownAsync(msg.ID, msg.Content))
	}
	return cmds
}
