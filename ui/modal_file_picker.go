package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"paperhub/config"
)

// attachTypes are the extensions the attach picker offers. The MIME check
// in the session is what actually accepts or rejects a file.
var attachTypes = []string{".pdf", ".txt"}

const pickerModalWidth = 80

// FilePickerState is the attach modal: browsing until a file is chosen,
// then a spinner while its text is extracted.
type FilePickerState struct {
	Title      string
	Active     bool
	Processing bool
	Picker     filepicker.Model
	Spinner    spinner.Model
}

// NewFilePickerState opens the picker in dir, or the home directory when dir
// is empty. Only files with one of types can be chosen.
func NewFilePickerState(title, dir string, types []string) FilePickerState {
	if dir == "" {
		dir = config.GetHomeDir()
	}

	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = types
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(successColor)

	return FilePickerState{
		Title:   title,
		Picker:  fp,
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (fps *FilePickerState) Activate() {
	fps.Active = true
	fps.Processing = false
}

func (fps *FilePickerState) Reset() {
	fps.Active = false
	fps.Processing = false
}

// RenderFilePickerModal draws the picker listing, or the extraction spinner
// once a file has been chosen.
func RenderFilePickerModal(state FilePickerState, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}
	modalWidth := modalWidthFor(pickerModalWidth, width)

	if state.Processing {
		line := lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Width(modalWidth).
			Align(lipgloss.Center).
			Render(state.Spinner.View() + " Extracting text...")
		return RenderThreeSectionModal(state.Title, []string{line},
			"Sending is disabled until the document is ready",
			ModalTypeInfo, modalWidth, width, height)
	}

	row := lipgloss.NewStyle().Width(modalWidth)
	var lines []string
	for _, l := range strings.Split(state.Picker.View(), "\n") {
		lines = append(lines, row.Render("  "+strings.TrimRight(l, " ")))
	}
	lines = append(lines, "", row.Foreground(dimColor).Render("  PDF and plain text files only"))

	return RenderThreeSectionModal(state.Title, lines,
		FormatFooter("j/k", "Navigate", "h/l", "Back/Open", "Enter", "Attach", "Esc", "Cancel"),
		ModalTypeInfo, modalWidth, width, height)
}
