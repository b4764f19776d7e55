package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"paperhub/catalog"
	"paperhub/config"
	appmodel "paperhub/model"
	"paperhub/storage"
)

// focusFlushInterval is how much focus time accumulates before it is saved.
const focusFlushInterval = 15 * time.Second

var sectionStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(dimColor).
	Padding(0, 1)

func (a AppView) now() time.Time {
	if t := time.Time(a.clock); !t.IsZero() {
		return t
	}
	return time.Now()
}

func (a AppView) focusTotal() time.Duration {
	total := a.focusPending
	if a.dataModel.Prefs != nil {
		total += a.dataModel.Prefs.FocusTime()
	}
	return total
}

// flushFocus saves focus time counted since the last flush.
func (a *AppView) flushFocus() {
	if a.focusPending == 0 || a.dataModel.Prefs == nil {
		return
	}
	if err := a.dataModel.Prefs.AddFocus(a.focusPending); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] Failed to save focus time: %v", err)
		}
		return
	}
	a.focusPending = 0
}

func (a *AppView) saveMemo() {
	if !a.memoMode || a.dataModel.Prefs == nil {
		return
	}
	if err := a.dataModel.Prefs.SetMemo(a.memoInput.Value()); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[UI] Failed to save memo: %v", err)
	}
}

func (a AppView) renderSidebar() string {
	now := a.now()
	colWidth := max(min((a.width-2)/2, 60), 30)

	zone := "AoE"
	if a.localClock {
		zone = "Local"
	}
	clock := catalog.Clock(now, a.localClock)
	clockBox := sectionStyle.Width(colWidth).Render(
		HighlightStyle.Render(zone+" Time") + "\n" +
			TitleStyle.Render(clock.Format("15:04:05")) + "  " + DimStyle.Render(clock.Format("Mon Jan 2")),
	)

	var dl []string
	dl = append(dl, HighlightStyle.Render("Deadlines"))
	for _, c := range catalog.Conferences() {
		status := c.Status(now)
		style := UserStyle
		switch {
		case status == "Closed":
			style = DimStyle
		case c.DaysUntil(now) <= 14:
			style = ErrorStyle
		}
		dl = append(dl, fmt.Sprintf("%-10s %s", c.Name, style.Render(status)))
	}
	deadlineBox := sectionStyle.Width(colWidth).Render(strings.Join(dl, "\n"))

	goal := storage.DefaultGoal
	var todos []storage.Todo
	memo := ""
	if p := a.dataModel.Prefs; p != nil {
		goal = p.Goal()
		todos = p.Todos()
		memo = p.Memo()
	}

	goalLines := []string{HighlightStyle.Render("Goal: ") + TitleStyle.Render(goal.Title)}
	if cd, err := catalog.GoalCountdown(goal.Date, now); err == nil {
		goalLines = append(goalLines, cd.String()+DimStyle.Render("  until "+goal.Date))
	} else {
		goalLines = append(goalLines, ErrorStyle.Render(err.Error()))
	}
	if a.goalMode {
		goalLines = append(goalLines, a.goalInput.View())
	}
	goalBox := sectionStyle.Width(colWidth).Render(strings.Join(goalLines, "\n"))

	focus := a.focusTotal()
	garden := catalog.GardenFor(focus)
	state := DimStyle.Render("paused")
	if a.focusOn {
		state = UserStyle.Render("focusing")
	}
	focusBox := sectionStyle.Width(colWidth).Render(strings.Join([]string{
		HighlightStyle.Render("Focus Garden") + "  " + state,
		fmt.Sprintf("%s %s  %s", garden.Icon, garden.Stage, catalog.FormatClock(focus)),
		progressBar(garden.Progress, colWidth-4) + strings.Repeat(" 🐈", garden.Cats),
	}, "\n"))

	todoLines := []string{HighlightStyle.Render("To-do")}
	if len(todos) == 0 {
		todoLines = append(todoLines, DimStyle.Render("Nothing yet. Press t to add."))
	}
	for i, t := range todos {
		box := "[ ]"
		text := t.Text
		if t.Done {
			box = "[x]"
			text = DimStyle.Strikethrough(true).Render(text)
		}
		cursor := "  "
		if i == a.selectedTodo {
			cursor = SelectedStyle.Render("▶ ")
		}
		todoLines = append(todoLines, cursor+box+" "+text)
	}
	if a.todoMode {
		todoLines = append(todoLines, a.todoInput.View())
	}
	todoBox := sectionStyle.Width(colWidth).Render(strings.Join(todoLines, "\n"))

	memoBody := memo
	if a.memoMode {
		memoBody = a.memoInput.View()
	} else if memoBody == "" {
		memoBody = DimStyle.Render("Press m to jot something down.")
	}
	memoTitle := HighlightStyle.Render("Memo")
	if !a.savedAt.IsZero() {
		memoTitle += DimStyle.Render("  saved " + a.savedAt.Format("15:04"))
	}
	memoBox := sectionStyle.Width(colWidth).Render(memoTitle + "\n" + memoBody)

	left := lipgloss.JoinVertical(lipgloss.Left, clockBox, deadlineBox, goalBox)
	right := lipgloss.JoinVertical(lipgloss.Left, focusBox, todoBox, memoBox)

	var body string
	if a.width >= 2*colWidth+4 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.NewStyle().MaxHeight(a.bodyHeight()).Render(body)
}

func progressBar(percent float64, width int) string {
	width = max(min(width, 30), 5)
	filled := int(percent / 100 * float64(width))
	filled = max(min(filled, width), 0)
	return UserStyle.Render(strings.Repeat("█", filled)) + DimStyle.Render(strings.Repeat("░", width-filled))
}

func (a AppView) handleSidebarKey(msg tea.KeyMsg) (AppView, tea.Cmd) {
	prefs := a.dataModel.Prefs

	switch {
	case a.todoMode:
		switch msg.String() {
		case "esc":
			a.todoMode = false
			a.todoInput.Reset()
			return a, nil
		case "enter":
			a.todoMode = false
			if prefs != nil && strings.TrimSpace(a.todoInput.Value()) != "" {
				if _, err := prefs.AddTodo(a.todoInput.Value()); err != nil {
					a.showError("Could Not Save To-do", err)
				}
			}
			a.todoInput.Reset()
			return a, nil
		}
		var cmd tea.Cmd
		a.todoInput, cmd = a.todoInput.Update(msg)
		return a, cmd

	case a.memoMode:
		if msg.String() == "esc" {
			a.saveMemo()
			a.memoMode = false
			a.memoInput.Blur()
			return a, nil
		}
		var cmd tea.Cmd
		a.memoInput, cmd = a.memoInput.Update(msg)
		return a, cmd

	case a.goalMode:
		switch msg.String() {
		case "esc":
			a.goalMode = false
			return a, nil
		case "enter":
			title, date, ok := strings.Cut(a.goalInput.Value(), "|")
			if !ok {
				a.flash = ErrorStyle.Render("Use the form: Title | YYYY-MM-DD")
				return a, appmodel.FlashTick()
			}
			if prefs != nil {
				if err := prefs.SetGoal(title, strings.TrimSpace(date)); err != nil {
					a.flash = ErrorStyle.Render(err.Error())
					return a, appmodel.FlashTick()
				}
			}
			a.goalMode = false
			return a, nil
		}
		var cmd tea.Cmd
		a.goalInput, cmd = a.goalInput.Update(msg)
		return a, cmd
	}

	var todos []storage.Todo
	if prefs != nil {
		todos = prefs.Todos()
	}

	switch msg.String() {
	case " ":
		a.focusOn = !a.focusOn
		if !a.focusOn {
			a.flushFocus()
		}
	case "r":
		a.focusOn = false
		a.focusPending = 0
		if prefs != nil {
			if err := prefs.ResetFocus(); err != nil {
				a.showError("Could Not Reset Timer", err)
			}
		}
	case "j", "down":
		if a.selectedTodo < len(todos)-1 {
			a.selectedTodo++
		}
	case "k", "up":
		if a.selectedTodo > 0 {
			a.selectedTodo--
		}
	case "t":
		a.todoMode = true
		return a, a.todoInput.Focus()
	case "x":
		if a.selectedTodo < len(todos) {
			if err := prefs.ToggleTodo(todos[a.selectedTodo].ID); err != nil {
				a.showError("Could Not Save To-do", err)
			}
		}
	case "D":
		if a.selectedTodo < len(todos) {
			if err := prefs.RemoveTodo(todos[a.selectedTodo].ID); err != nil {
				a.showError("Could Not Save To-do", err)
			}
			if a.selectedTodo >= len(todos)-1 {
				a.selectedTodo = max(0, len(todos)-2)
			}
		}
	case "m":
		a.memoMode = true
		if prefs != nil {
			a.memoInput.SetValue(prefs.Memo())
		}
		return a, a.memoInput.Focus()
	case "g":
		a.goalMode = true
		if prefs != nil {
			g := prefs.Goal()
			a.goalInput.SetValue(g.Title + " | " + g.Date)
		}
		return a, a.goalInput.Focus()
	case "z":
		a.localClock = !a.localClock
	}
	return a, nil
}
