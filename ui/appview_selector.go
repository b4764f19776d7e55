package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"paperhub/ollama"
)

const selectorModalWidth = 80

// visibleWindow returns the [start, end) slice of n rows that keeps
// selected roughly centered in rows lines.
func visibleWindow(n, selected, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := min(max(selected-rows/2, 0), n-rows)
	return start, start + rows
}

// renderModelSelector lists the daemon's installed models. Backends that
// cannot enumerate models (hosted, in-process) get an explanatory line.
func renderModelSelector(models []ollama.ModelInfo, selectedIdx int, currentModel, listErr string, width, height int) string {
	modalWidth := modalWidthFor(selectorModalWidth, width)

	title := fmt.Sprintf("Select Model (%d installed)", len(models))
	var lines []string
	switch {
	case listErr != "":
		title = "Select Model"
		lines = append(lines, lipgloss.NewStyle().Foreground(dangerColor).Render("Could not list models:"))
		lines = append(lines, centeredLines(listErr, modalWidth)...)
	case len(models) == 0:
		title = "Select Model"
		lines = centeredLines("This backend does not list models", modalWidth)
	default:
		start, end := visibleWindow(len(models), selectedIdx, height-14)
		for i := start; i < end; i++ {
			lines = append(lines, modelRow(models[i], i == selectedIdx, models[i].Name == currentModel, modalWidth))
		}
	}

	return RenderThreeSectionModal(title, lines,
		FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Exit"),
		ModalTypeInfo, modalWidth, width, height)
}

// modelRow renders "▶ name (current)      1.2 GB" padded to modalWidth.
func modelRow(m ollama.ModelInfo, selected, current bool, modalWidth int) string {
	cursor := "  "
	if selected {
		cursor = "▶ "
	}
	marker := ""
	if current {
		marker = " (current)"
	}
	size := formatSize(m.Size)

	name := truncate(m.Name, modalWidth-runewidth.StringWidth(marker)-len(size)-8)
	left := cursor + name + marker
	gap := max(modalWidth-runewidth.StringWidth(left)-len(size)-2, 1)

	style := lipgloss.NewStyle()
	switch {
	case selected:
		style = style.Foreground(successColor).Bold(true)
	case current:
		style = style.Foreground(accentColor).Bold(true)
	}
	return style.Render(left + strings.Repeat(" ", gap) + size)
}

// formatSize renders a byte count with a binary unit. Zero means unknown
// and renders empty.
func formatSize(bytes int64) string {
	if bytes == 0 {
		return ""
	}
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
