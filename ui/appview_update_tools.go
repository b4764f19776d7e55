package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"paperhub/catalog"
	"paperhub/config"
	appmodel "paperhub/model"
	"paperhub/storage"
)

// Compose form fields.
const (
	composeNickname = iota
	composeBody
	composePassword
)

// Built-in helper fields.
const (
	helperAuthors = iota
	helperBase
	helperValue
)

// handleToolMessage handles comment and like results for the catalog. ok is
// false when msg belongs to another handler.
func (a AppView) handleToolMessage(msg tea.Msg) (AppView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case commentsLoadedMsg:
		if msg.Err != nil {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[UI] Loading comments for %s failed: %v", msg.ToolID, msg.Err)
			}
			if a.mode == viewDetail && a.detail.ID == msg.ToolID {
				a.showError("Could Not Load Comments", msg.Err)
			}
		}
		a.clampComment()
		return a, nil, true

	case commentSubmittedMsg:
		if msg.Err != nil {
			// The board put the draft back; show it again for editing.
			if a.mode == viewDetail && a.detail.ID == msg.ToolID {
				a.fillCompose(a.dataModel.Board(msg.ToolID).CurrentDraft())
			}
			a.showError("Comment Not Posted", msg.Err)
		}
		return a, nil, true

	case commentDeletedMsg:
		a.deleteInFlight = false
		if msg.Err != nil {
			if errors.Is(msg.Err, storage.ErrWrongPassword) {
				a.showError("Wrong Password", errors.New("the password does not match this comment"))
			} else {
				a.showError("Delete Failed", msg.Err)
			}
		}
		a.clampComment()
		return a, nil, true

	case likedMsg:
		if msg.Err != nil {
			a.showError("Like Failed", msg.Err)
			return a, nil, true
		}
		c := a.counts[msg.ToolID]
		c.likes, c.loaded = msg.Count, true
		a.counts[msg.ToolID] = c
		return a, nil, true

	case countsMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Counters for %s incomplete: %v", msg.ToolID, msg.Err)
		}
		a.counts[msg.ToolID] = toolCounts{comments: msg.Comments, likes: msg.Likes, loaded: true}
		return a, nil, true

	case countChangedMsg:
		c := a.counts[msg.ToolID]
		switch msg.Kind {
		case appmodel.CountComments:
			c.comments = msg.Count
		case appmodel.CountLikes:
			c.likes = msg.Count
		}
		c.loaded = true
		a.counts[msg.ToolID] = c
		return a, a.dataModel.WaitForCount(), true
	}
	return a, nil, false
}

func (a AppView) handleCatalogKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if a.filterMode {
		switch msg.String() {
		case "esc":
			a.filterMode = false
			a.filterInput.Reset()
			a.filterInput.Blur()
			a.refreshToolList()
			return a, nil
		case "enter":
			a.filterMode = false
			a.filterInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.filterInput, cmd = a.filterInput.Update(msg)
		a.refreshToolList()
		a.selectedTool = 0
		return a, cmd
	}

	switch msg.String() {
	case "j", "down":
		if a.selectedTool < len(a.toolList)-1 {
			a.selectedTool++
		}
	case "k", "up":
		if a.selectedTool > 0 {
			a.selectedTool--
		}
	case "c":
		a.category = catalog.NextCategory(a.category)
		a.selectedTool = 0
		a.refreshToolList()
	case "/":
		a.filterMode = true
		return a, a.filterInput.Focus()
	case "f":
		if tool, ok := a.currentTool(); ok && a.dataModel.Prefs != nil {
			if _, err := a.dataModel.Prefs.ToggleFavorite(tool.ID); err != nil {
				a.showError("Could Not Save Favorite", err)
				return a, nil
			}
			a.refreshToolList()
		}
	case "enter":
		if tool, ok := a.currentTool(); ok {
			return a.openDetail(tool)
		}
	case "y":
		if tool, ok := a.currentTool(); ok && !tool.Internal {
			return a, copyToClipboard("link", tool.Link)
		}
	}
	return a, nil
}

func (a AppView) currentTool() (catalog.Tool, bool) {
	if a.selectedTool < 0 || a.selectedTool >= len(a.toolList) {
		return catalog.Tool{}, false
	}
	return a.toolList[a.selectedTool], true
}

func (a AppView) openDetail(tool catalog.Tool) (AppView, tea.Cmd) {
	a.mode = viewDetail
	a.detail = tool
	a.selectedComment = 0
	a.composing = false
	a.helperMode = false
	a.fillCompose(a.dataModel.Board(tool.ID).CurrentDraft())
	return a, tea.Batch(
		a.dataModel.LoadComments(tool.ID),
		a.dataModel.FetchCounts(tool.ID, tool.SeedLikes),
	)
}

func (a AppView) handleDetailKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if a.composing {
		return a.handleComposeKey(msg)
	}
	if a.helperMode {
		return a.handleHelperKey(msg)
	}

	tool := a.detail
	switch msg.String() {
	case "esc", "backspace":
		a.mode = viewCatalog
		a.refreshToolList()
	case "l":
		if a.dataModel.Likes.Liked(tool.ID) {
			a.flash = DimStyle.Render("You already liked this tool")
			return a, appmodel.FlashTick()
		}
		return a, a.dataModel.Like(tool.ID, tool.SeedLikes)
	case "i":
		a.composing = true
		a.composeFocus = composeBody
		return a, a.focusCompose()
	case "j", "down":
		if a.selectedComment < len(a.dataModel.Board(tool.ID).Comments())-1 {
			a.selectedComment++
		}
	case "k", "up":
		if a.selectedComment > 0 {
			a.selectedComment--
		}
	case "d":
		comments := a.dataModel.Board(tool.ID).Comments()
		if a.selectedComment >= len(comments) || a.deleteInFlight {
			return a, nil
		}
		c := comments[a.selectedComment]
		if strings.HasPrefix(c.ID, "temp-") {
			a.flash = DimStyle.Render("This comment is still being posted")
			return a, appmodel.FlashTick()
		}
		a.showPassword = true
		a.pendingDelete = c.ID
		a.pendingAuthor = c.Nickname
		a.passwordErr = ""
		a.passwordInput.Reset()
		return a, a.passwordInput.Focus()
	case "e":
		if tool.Internal {
			a.helperMode = true
			a.helperFocus = a.firstHelperField()
			return a, a.focusHelper()
		}
	case "y":
		if !tool.Internal {
			return a, copyToClipboard("link", tool.Link)
		}
	}
	return a, nil
}

func (a AppView) handleComposeKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.composing = false
		a.dataModel.Board(a.detail.ID).SetDraft(a.composeDraft())
		a.blurCompose()
		return a, nil
	case "tab", "down":
		a.composeFocus = (a.composeFocus + 1) % len(a.composeInputs)
		return a, a.focusCompose()
	case "shift+tab", "up":
		a.composeFocus = (a.composeFocus + len(a.composeInputs) - 1) % len(a.composeInputs)
		return a, a.focusCompose()
	case "enter":
		draft := a.composeDraft()
		if strings.TrimSpace(draft.Body) == "" || draft.Password == "" {
			a.flash = ErrorStyle.Render("A comment and a password are required")
			return a, appmodel.FlashTick()
		}
		a.dataModel.Board(a.detail.ID).SetDraft(draft)
		a.composing = false
		a.selectedComment = 0
		a.fillCompose(appmodel.CommentDraft{})
		a.blurCompose()
		return a, a.dataModel.SubmitComment(a.detail.ID)
	}

	var cmd tea.Cmd
	a.composeInputs[a.composeFocus], cmd = a.composeInputs[a.composeFocus].Update(msg)
	return a, cmd
}

func (a AppView) composeDraft() appmodel.CommentDraft {
	return appmodel.CommentDraft{
		Nickname: a.composeInputs[composeNickname].Value(),
		Body:     a.composeInputs[composeBody].Value(),
		Password: a.composeInputs[composePassword].Value(),
	}
}

func (a *AppView) fillCompose(d appmodel.CommentDraft) {
	a.composeInputs[composeNickname].SetValue(d.Nickname)
	a.composeInputs[composeBody].SetValue(d.Body)
	a.composeInputs[composePassword].SetValue(d.Password)
}

func (a *AppView) focusCompose() tea.Cmd {
	a.blurCompose()
	return a.composeInputs[a.composeFocus].Focus()
}

func (a *AppView) blurCompose() {
	for i := range a.composeInputs {
		a.composeInputs[i].Blur()
	}
}

func (a AppView) handlePasswordModal(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showPassword = false
		a.passwordInput.Reset()
		return a, nil
	case "enter":
		password := a.passwordInput.Value()
		if password == "" {
			a.passwordErr = "Enter the password used when posting"
			return a, nil
		}
		a.showPassword = false
		a.deleteInFlight = true
		a.passwordInput.Reset()
		return a, a.dataModel.DeleteComment(a.detail.ID, a.pendingDelete, password)
	}

	var cmd tea.Cmd
	a.passwordInput, cmd = a.passwordInput.Update(msg)
	a.passwordErr = ""
	return a, cmd
}

func (a AppView) helperFields() []int {
	switch a.detail.ID {
	case catalog.AuthorConverterID:
		return []int{helperAuthors}
	case catalog.ImprovementCalcID:
		return []int{helperBase, helperValue}
	}
	return nil
}

func (a AppView) firstHelperField() int {
	if fields := a.helperFields(); len(fields) > 0 {
		return fields[0]
	}
	return helperAuthors
}

func (a AppView) handleHelperKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	fields := a.helperFields()
	switch msg.String() {
	case "esc":
		a.helperMode = false
		for i := range a.helperInputs {
			a.helperInputs[i].Blur()
		}
		return a, nil
	case "tab", "shift+tab":
		for i, f := range fields {
			if f == a.helperFocus {
				a.helperFocus = fields[(i+1)%len(fields)]
				break
			}
		}
		return a, a.focusHelper()
	case "ctrl+p":
		if a.detail.ID == catalog.ImprovementCalcID {
			a.percentPoints = !a.percentPoints
		}
		return a, nil
	case "ctrl+y":
		if a.detail.ID == catalog.AuthorConverterID {
			out := catalog.ConvertAuthors(a.helperInputs[helperAuthors].Value())
			if out != "" {
				return a, copyToClipboard("authors", out)
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.helperInputs[a.helperFocus], cmd = a.helperInputs[a.helperFocus].Update(msg)
	return a, cmd
}

func (a *AppView) focusHelper() tea.Cmd {
	for i := range a.helperInputs {
		a.helperInputs[i].Blur()
	}
	return a.helperInputs[a.helperFocus].Focus()
}

func (a *AppView) clampComment() {
	if a.mode != viewDetail {
		return
	}
	n := len(a.dataModel.Board(a.detail.ID).Comments())
	if a.selectedComment >= n {
		a.selectedComment = max(0, n-1)
	}
}
