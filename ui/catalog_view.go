package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"paperhub/catalog"
)

func newComposeInputs() []textinput.Model {
	nickname := textinput.New()
	nickname.Prompt = "Nickname: "
	nickname.Placeholder = "Anonymous"
	nickname.CharLimit = 32

	body := textinput.New()
	body.Prompt = "Comment:  "
	body.Placeholder = "Share a tip about this tool"
	body.CharLimit = 500

	password := NewPasswordInput("Needed to delete it later")
	password.Prompt = "Password: "

	return []textinput.Model{nickname, body, password}
}

func newHelperInputs() []textinput.Model {
	authors := textinput.New()
	authors.Prompt = "Authors: "
	authors.Placeholder = "Jane Doe, John Smith, Alex Kim"
	authors.CharLimit = 1000

	base := textinput.New()
	base.Prompt = "Baseline: "
	base.Placeholder = "72.4"
	base.CharLimit = 24

	value := textinput.New()
	value.Prompt = "New:      "
	value.Placeholder = "75.1"
	value.CharLimit = 24

	return []textinput.Model{authors, base, value}
}

// bodyHeight is the space between the title bar and the status bar.
func (a AppView) bodyHeight() int {
	return max(a.height-3, 1)
}

func (a AppView) renderCatalog() string {
	var lines []string

	var cats []string
	for _, c := range catalog.Categories() {
		if c.ID == a.category {
			cats = append(cats, ActiveTabStyle.Render(c.Label))
		} else {
			cats = append(cats, TabStyle.Render(c.Label))
		}
	}
	lines = append(lines, truncate(strings.Join(cats, ""), a.width))

	if a.filterMode || a.filterInput.Value() != "" {
		lines = append(lines, a.filterInput.View())
	}
	lines = append(lines, "")

	if len(a.toolList) == 0 {
		msg := "No tools here yet."
		if a.category == catalog.CategoryFavorites {
			msg = "No favorites yet. Press f on a tool to add it."
		}
		lines = append(lines, DimStyle.Render(msg))
		return strings.Join(lines, "\n")
	}

	// Two lines per tool; scroll so the selection stays visible.
	room := max((a.bodyHeight()-len(lines))/2, 1)
	start := 0
	if a.selectedTool >= room {
		start = a.selectedTool - room + 1
	}
	end := min(start+room, len(a.toolList))

	for i := start; i < end; i++ {
		t := a.toolList[i]
		lines = append(lines, a.renderToolRow(t, i == a.selectedTool)...)
	}
	return strings.Join(lines, "\n")
}

func (a AppView) renderToolRow(t catalog.Tool, selected bool) []string {
	cursor := "  "
	title := TitleStyle.Render(t.Title)
	if selected {
		cursor = SelectedStyle.Render("▶ ")
		title = SelectedStyle.Render(t.Title)
	}

	star := ""
	if a.dataModel.Prefs != nil && a.dataModel.Prefs.IsFavorite(t.ID) {
		star = HighlightStyle.Render(" ★")
	}

	counts := DimStyle.Render("  …")
	if c, ok := a.counts[t.ID]; ok && c.loaded {
		counts = DimStyle.Render(fmt.Sprintf("  ♥ %d  💬 %d", c.likes, c.comments))
	}

	head := cursor + title + star + " " + LabelStyle.Render("["+t.Label+"]") + counts
	desc := "    " + DimStyle.Render(truncate(t.Description, max(a.width-4, 8)))
	return []string{truncate(head, a.width), desc}
}

func (a AppView) renderDetail() string {
	t := a.detail
	width := max(a.width-2, 20)

	var lines []string
	heart := "♡"
	if a.dataModel.Likes.Liked(t.ID) {
		heart = ErrorStyle.Render("♥")
	}
	c := a.counts[t.ID]
	lines = append(lines,
		TitleStyle.Render(t.Title)+" "+LabelStyle.Render("["+t.Label+"]"),
		DimStyle.Render(fmt.Sprintf("%s %d likes  💬 %d comments", heart, c.likes, c.comments)),
		"",
	)
	lines = append(lines, strings.Split(wordWrap(t.Description, width), "\n")...)
	lines = append(lines, "", HighlightStyle.Render("How to use"))
	lines = append(lines, strings.Split(wordWrap(t.HowTo, width), "\n")...)

	if t.Internal {
		lines = append(lines, "")
		lines = append(lines, a.renderHelper()...)
	} else {
		lines = append(lines, "", DimStyle.Render("Link: ")+t.Link)
	}

	lines = append(lines, "", HighlightStyle.Render("Comments"))
	if a.composing {
		for _, in := range a.composeInputs {
			lines = append(lines, "  "+in.View())
		}
		lines = append(lines, DimStyle.Render("  Tab next field  Enter post  Esc close"), "")
	}

	comments := a.dataModel.Board(t.ID).Comments()
	if len(comments) == 0 {
		lines = append(lines, DimStyle.Render("  No comments yet. Press i to write the first one."))
	}

	room := max(a.bodyHeight()-len(lines), 2) / 2
	start := 0
	if a.selectedComment >= room {
		start = a.selectedComment - room + 1
	}
	for i := start; i < min(start+room, len(comments)); i++ {
		cm := comments[i]
		cursor := "  "
		name := UserStyle.Render(cm.Nickname)
		if i == a.selectedComment && !a.composing {
			cursor = SelectedStyle.Render("▶ ")
		}
		when := cm.CreatedAt.Local().Format("2006-01-02 15:04")
		if strings.HasPrefix(cm.ID, "temp-") {
			when = "posting…"
		}
		lines = append(lines,
			cursor+name+" "+DimStyle.Render(when),
			"    "+truncate(cm.Body, max(a.width-4, 8)),
		)
	}

	return lipgloss.NewStyle().MaxHeight(a.bodyHeight()).Render(strings.Join(lines, "\n"))
}

// renderHelper draws the built-in tool behind an internal catalog entry.
func (a AppView) renderHelper() []string {
	if !a.helperMode {
		return []string{DimStyle.Render("Press e to " + strings.ToLower(a.detail.ActionText) + ".")}
	}

	var lines []string
	switch a.detail.ID {
	case catalog.AuthorConverterID:
		lines = append(lines, "  "+a.helperInputs[helperAuthors].View())
		if out := catalog.ConvertAuthors(a.helperInputs[helperAuthors].Value()); out != "" {
			lines = append(lines, "  "+DimStyle.Render("LaTeX: ")+HighlightStyle.Render(out))
		}
		lines = append(lines, DimStyle.Render("  Ctrl+Y copy  Esc close"))

	case catalog.ImprovementCalcID:
		mode := "relative rate"
		if a.percentPoints {
			mode = "percent points"
		}
		lines = append(lines,
			"  "+a.helperInputs[helperBase].View(),
			"  "+a.helperInputs[helperValue].View(),
		)
		imp, ok := catalog.ParseImprovement(a.helperInputs[helperBase].Value(), a.helperInputs[helperValue].Value(), a.percentPoints)
		if ok {
			style := UserStyle
			if !imp.Positive {
				style = ErrorStyle
			}
			lines = append(lines, "  "+DimStyle.Render(imp.Label+": ")+style.Render(imp.Value))
		}
		lines = append(lines, DimStyle.Render("  Mode: "+mode+"  Ctrl+P switch  Tab next field  Esc close"))
	}
	return lines
}
