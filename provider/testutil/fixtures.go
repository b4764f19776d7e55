package testutil

import (
	"paperhub/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		model.NewMessage(model.RoleUser, "What is retrieval-augmented generation?"),
		model.NewMessage(model.RoleAssistant, "It grounds answers in retrieved documents."),
		model.NewMessage(model.RoleSystem, `Attached "rag.pdf" (5120 characters). Answers will draw on this document.`),
		model.NewMessage(model.RoleUser, "Summarize section 3."),
	}
}

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{model.NewMessage(model.RoleUser, content)}
}

// TestRequest wraps messages in a request with a short system prompt.
func TestRequest(messages []model.Message) model.ChatRequest {
	return model.ChatRequest{
		System:   "You are a research assistant AI.",
		Messages: messages,
	}
}
