package model

import "strings"

const (
	defaultResearchPrompt = "You are a research assistant AI. Answer research-related questions professionally and kindly."
	documentPromptHeader  = "You are a research assistant AI. Answer based on the content of the document provided below."
)

// BuildSystemPrompt synthesizes the system prompt for a turn.
//
// With no attachment text the base prompt is used (or the generic research
// prompt when base is empty). Attachment text is placed ahead of the
// conversation so every turn sees it until it is removed.
func BuildSystemPrompt(base, attachment string) string {
	if strings.TrimSpace(base) == "" {
		base = defaultResearchPrompt
	}
	if attachment == "" {
		return base
	}

	var b strings.Builder
	b.WriteString(documentPromptHeader)
	b.WriteString("\n\n[Document]\n")
	b.WriteString(attachment)
	if base != defaultResearchPrompt {
		b.WriteString("\n\n")
		b.WriteString(base)
	}
	return b.String()
}
