package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperhub/catalog"
	appmodel "paperhub/model"
	"paperhub/ollama"
	"paperhub/provider"
)

type viewMode int

const (
	viewChat viewMode = iota
	viewCatalog
	viewSidebar
	viewDetail
)

var tabNames = []string{"Chat", "Tools", "Desk"}

// toolCounts is what the catalog shows next to a tool.
type toolCounts struct {
	comments int
	likes    int
	loaded   bool
}

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI Components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool
	mode   viewMode

	showHelp  bool
	showAbout bool

	// Loading spinner (bubbles/spinner)
	loadingSpinner spinner.Model

	// Rendered markdown for finished assistant messages, by message id
	rendered map[string]string

	// Backend state
	backendOK      bool
	backendErr     string
	loadProgress   appmodel.LoadProgressMsg
	loadingModel   bool
	attachPicker   FilePickerState
	confirmNewChat bool

	// Model selector
	showModelSelector bool
	modelList         []ollama.ModelInfo
	selectedModelIdx  int
	modelListErr      string

	// Catalog
	category     string
	filterMode   bool
	filterInput  textinput.Model
	toolList     []catalog.Tool
	selectedTool int
	counts       map[string]toolCounts

	// Detail
	detail          catalog.Tool
	selectedComment int
	composing       bool
	composeFocus    int
	composeInputs   []textinput.Model
	helperMode      bool
	helperInputs    []textinput.Model
	helperFocus     int
	percentPoints   bool

	// Delete prompt
	showPassword   bool
	passwordInput  textinput.Model
	passwordErr    string
	pendingDelete  string
	pendingAuthor  string
	deleteInFlight bool

	// Desk (sidebar widgets)
	clock        clockTickMsg
	localClock   bool
	focusOn      bool
	focusPending time.Duration
	savedAt      time.Time
	selectedTodo int
	todoInput    textinput.Model
	todoMode     bool
	memoInput    textarea.Model
	memoMode     bool
	goalInput    textinput.Model
	goalMode     bool

	// Acknowledge modal (for warnings/errors requiring only acknowledgement)
	showAcknowledgeModal  bool
	acknowledgeModalTitle string
	acknowledgeModalMsg   string
	acknowledgeModalType  ModalType

	flash string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about your research or an attached paper..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Custom KeyMap: Alt+Enter for newline, Enter alone does nothing (handled separately)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	// Set dynamic prompt: "> " for first line, "| " for subsequent lines
	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	filterInput := textinput.New()
	filterInput.Prompt = "Search: "
	filterInput.CharLimit = 64

	todoInput := textinput.New()
	todoInput.Prompt = "To-do: "
	todoInput.CharLimit = 120

	goalInput := textinput.New()
	goalInput.Prompt = "Goal: "
	goalInput.Placeholder = "Paper Submission | 2026-06-30"
	goalInput.CharLimit = 120

	memo := textarea.New()
	memo.ShowLineNumbers = false
	memo.SetHeight(4)
	memo.SetWidth(40)
	memo.CharLimit = 2000

	attachPicker := NewFilePickerState("Attach Document", "", attachTypes)

	a := AppView{
		dataModel:      dataModel,
		textarea:       ta,
		viewport:       vp,
		loadingSpinner: sp,
		rendered:       make(map[string]string),
		category:       catalog.CategoryAll,
		filterInput:    filterInput,
		counts:         make(map[string]toolCounts),
		composeInputs:  newComposeInputs(),
		helperInputs:   newHelperInputs(),
		passwordInput:  NewPasswordInput("Password"),
		todoInput:      todoInput,
		goalInput:      goalInput,
		memoInput:      memo,
		attachPicker:   attachPicker,
	}
	a.refreshToolList()
	return a
}

func (a AppView) Init() tea.Cmd {
	// Don't render markdown here - wait for WindowSizeMsg to get correct width
	cmds := []tea.Cmd{
		textarea.Blink,
		a.loadingSpinner.Tick,
		a.dataModel.WaitForCount(),
		a.dataModel.WaitForProgress(),
		a.dataModel.WaitForPrefsSaved(),
		appmodel.ClockTick(),
	}
	if a.dataModel.Provider != nil {
		cmds = append(cmds, provider.PingBackend(a.dataModel.Provider))
	}
	for _, t := range a.toolList {
		cmds = append(cmds, a.dataModel.FetchCounts(t.ID, t.SeedLikes))
	}
	return tea.Batch(cmds...)
}

func (a AppView) backendName() string {
	if a.dataModel.Config == nil {
		return "unknown"
	}
	return a.dataModel.Config.Chat.Backend
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading PaperHub..."
	}

	// Modal rendering order (top to bottom layers):
	// 1. Acknowledge (errors surfaced from the reconcilers)
	// 2. Help (can peek while in other modals)
	// 3. Delete password prompt
	// 4. New conversation confirmation
	// 5. Attach picker
	// 6. Model selector
	// 7. About
	if a.showAcknowledgeModal {
		return RenderAcknowledgeModal(
			a.acknowledgeModalTitle,
			a.acknowledgeModalMsg,
			a.acknowledgeModalType,
			a.width,
			a.height,
		)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showPassword {
		return RenderPasswordModal("Delete Comment", a.pendingAuthor, a.passwordInput, a.passwordErr, a.width, a.height)
	}

	if a.confirmNewChat {
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "Start a New Conversation?",
			Message: "The current messages and attached document will be discarded.",
		}, a.width, a.height)
	}

	if a.attachPicker.Active {
		return RenderFilePickerModal(a.attachPicker, a.width, a.height)
	}

	if a.showModelSelector {
		return renderModelSelector(a.modelList, a.selectedModelIdx, a.dataModel.Provider.GetModel(), a.modelListErr, a.width, a.height)
	}

	if a.showAbout {
		return renderAboutModal(a.width, a.height, a.dataModel.Version, a.backendName())
	}

	var body string
	switch a.mode {
	case viewCatalog:
		body = a.renderCatalog()
	case viewDetail:
		body = a.renderDetail()
	case viewSidebar:
		body = a.renderSidebar()
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, a.viewport.View(), a.renderAttachmentLine(), a.textarea.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderTitle(),
		"",
		body,
		a.renderStatusBar(),
	)
}

func (a AppView) renderTitle() string {
	appText := AssistantStyle.Render("PaperHub")

	var tabs []string
	for i, name := range tabNames {
		active := viewMode(i) == a.mode || (a.mode == viewDetail && viewMode(i) == viewCatalog)
		if active {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, TabStyle.Render(name))
		}
	}

	modelName := "no backend"
	if a.dataModel.Provider != nil {
		modelName = a.dataModel.Provider.GetModel()
	}
	status := UserStyle.Render("●")
	if !a.backendOK {
		status = ErrorStyle.Render("●")
	}
	backend := TitleStyle.Render(fmt.Sprintf(" %s %s/%s", status, a.backendName(), modelName))

	return appText + " " + strings.Join(tabs, "") + backend
}

func (a AppView) renderStatusBar() string {
	// Status bar with bold user green descriptions (main chat uses user green)
	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	var statusBar string
	switch {
	case a.flash != "":
		statusBar = a.flash
	case a.mode == viewChat:
		statusBar = fmt.Sprintf("Alt+Q %s  Enter %s  Esc %s  Alt+O %s  Alt+N %s  Alt+M %s  Alt+Y %s  Alt+H %s",
			descStyle.Render("Quit"),
			descStyle.Render("Send"),
			descStyle.Render("Stop"),
			descStyle.Render("Attach"),
			descStyle.Render("New chat"),
			descStyle.Render("Models"),
			descStyle.Render("Copy"),
			descStyle.Render("Help"),
		)
	case a.mode == viewCatalog:
		statusBar = FormatFooter("j/k", "Move", "c", "Category", "/", "Search", "f", "Favorite", "Enter", "Open", "Tab", "Next view")
	case a.mode == viewDetail:
		statusBar = FormatFooter("l", "Like", "i", "Comment", "d", "Delete", "e", "Built-in tool", "y", "Copy link", "Esc", "Back")
	default:
		statusBar = FormatFooter("Space", "Focus", "t", "To-do", "x", "Check", "m", "Memo", "g", "Goal", "z", "Clock")
	}

	return StatusStyle.Render(truncate(statusBar, a.width))
}

// refreshToolList recomputes the visible catalog for the current category
// and query. Fuzzy ranking is used once a query is typed.
func (a *AppView) refreshToolList() {
	query := strings.TrimSpace(a.filterInput.Value())
	isFav := func(string) bool { return false }
	if a.dataModel.Prefs != nil {
		isFav = a.dataModel.Prefs.IsFavorite
	}

	if query == "" {
		a.toolList = catalog.Filter(a.category, "", isFav)
	} else {
		a.toolList = catalog.Search(a.category, query, isFav)
	}
	if a.selectedTool >= len(a.toolList) {
		a.selectedTool = max(0, len(a.toolList)-1)
	}
}

func (a *AppView) showError(title string, err error) {
	a.showAcknowledgeModal = true
	a.acknowledgeModalTitle = title
	a.acknowledgeModalMsg = err.Error()
	a.acknowledgeModalType = ModalTypeError
}
