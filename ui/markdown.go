package ui

import (
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"paperhub/config"
)

const (
	ansiRed     = "\x1b[31m"
	ansiDimGray = "\x1b[90m"
	ansiReset   = "\x1b[0m"

	// go-term-markdown prefixes code block lines with this gutter.
	codeGutter = "┃"
	codeLabel  = "[code]"
)

var (
	// go-term-markdown renders inline code as blue background + italic.
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		if config.DebugLog != nil {
			config.DebugLog.Printf("Rendered markdown for %s (%d chars) in %v", messageID, len(content), time.Since(start))
		}
		return markdownRenderedMsg{MessageID: messageID, Rendered: rendered}
	}
}

// renderMarkdown renders an assistant reply for a terminal width columns
// wide. Links are flattened to bare URLs and colored red, inline code is
// red text and code blocks lose their gutter and get a framed [code] rule.
func renderMarkdown(content string, width int) string {
	width = max(width, 24)

	// Autolink off so URLs stay plain text the terminal can detect.
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	doc := p.Parse([]byte(mdLinkRegex.ReplaceAllString(content, "$2")))
	out := string(gomarkdown.Render(doc, markdown.NewRenderer(max(width-4, 20), 0)))

	out = inlineCodeRegex.ReplaceAllString(out, ansiRed+"$1"+ansiReset)
	out = colorURLs(out)
	return frameCodeBlocks(out, width)
}

// colorURLs colors bare URLs outside code blocks.
func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !strings.Contains(line, codeGutter) {
			lines[i] = urlRegex.ReplaceAllString(line, ansiRed+"$1"+ansiReset)
		}
	}
	return strings.Join(lines, "\n")
}

func codeRule(width int, label string) string {
	n := max(width-4-len(label), 0)
	left := n / 2
	return ansiDimGray + strings.Repeat("━", left) + ansiReset + label +
		ansiDimGray + strings.Repeat("━", n-left) + ansiReset
}

// frameCodeBlocks replaces the gutter on each run of code lines with a
// labeled rule above and a plain rule below, padded by blank lines.
func frameCodeBlocks(s string, width int) string {
	var out []string
	inBlock := false
	closeBlock := func() {
		out = append(out, "", codeRule(width, ""), "")
		inBlock = false
	}

	for _, line := range strings.Split(s, "\n") {
		if !strings.Contains(line, codeGutter) {
			if inBlock {
				closeBlock()
			}
			out = append(out, line)
			continue
		}
		if !inBlock {
			out = append(out, "", codeRule(width, codeLabel), "")
			inBlock = true
		}
		out = append(out, stripCodeGutter(line))
	}
	if inBlock {
		closeBlock()
	}
	return strings.Join(out, "\n")
}

// stripCodeGutter drops everything up to and including the gutter and one
// following space.
func stripCodeGutter(line string) string {
	_, after, ok := strings.Cut(line, codeGutter)
	if !ok {
		return line
	}
	return strings.TrimPrefix(after, " ")
}
