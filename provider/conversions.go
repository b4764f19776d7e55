package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"paperhub/model"
)

// turnMessages drops anything that is not a user or assistant turn, such as
// attachment notices.
func turnMessages(messages []model.Message) []model.Message {
	out := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.IsTurn() {
			out = append(out, msg)
		}
	}
	return out
}

// ConvertToOllamaMessages converts a request into Ollama api.Message, with
// the system prompt as the leading system message.
//
// Example:
//
//	req := model.ChatRequest{
//	    System:   "You are a research assistant AI.",
//	    Messages: []model.Message{{Role: model.RoleUser, Content: "Hello"}},
//	}
//	msgs := ConvertToOllamaMessages(req)
//	// msgs[0].Role == "system", msgs[1].Role == "user"
func ConvertToOllamaMessages(req model.ChatRequest) []api.Message {
	turns := turnMessages(req.Messages)
	result := make([]api.Message, 0, len(turns)+1)
	if req.System != "" {
		result = append(result, api.Message{Role: string(model.RoleSystem), Content: req.System})
	}
	for _, msg := range turns {
		result = append(result, api.Message{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}

// ConvertFromOllamaMessages converts Ollama api.Message back to model.Message.
// Ids and timestamps are assigned fresh.
func ConvertFromOllamaMessages(messages []api.Message) []model.Message {
	result := make([]model.Message, len(messages))
	for i, msg := range messages {
		result[i] = model.NewMessage(model.Role(msg.Role), msg.Content)
	}
	return result
}

// ConvertToHostedMessages converts the history to the hosted endpoint's
// {role, content} shape. The system prompt is not sent.
func ConvertToHostedMessages(messages []model.Message) []HostedMessage {
	turns := turnMessages(messages)
	result := make([]HostedMessage, len(turns))
	for i, msg := range turns {
		result[i] = HostedMessage{Role: string(msg.Role), Content: msg.Content}
	}
	return result
}

// ConvertFromHostedMessages is the server-side inverse of
// ConvertToHostedMessages. Unknown roles are treated as user turns.
func ConvertFromHostedMessages(messages []HostedMessage) []model.Message {
	result := make([]model.Message, 0, len(messages))
	for _, msg := range messages {
		role := model.Role(msg.Role)
		switch role {
		case model.RoleUser, model.RoleAssistant:
		case model.RoleSystem:
			continue
		default:
			role = model.RoleUser
		}
		result = append(result, model.NewMessage(role, msg.Content))
	}
	return result
}

// ConvertToOpenAIMessages converts a request to OpenAI chat messages.
func ConvertToOpenAIMessages(req model.ChatRequest) []openai.ChatCompletionMessageParamUnion {
	turns := turnMessages(req.Messages)
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if req.System != "" {
		result = append(result, openai.SystemMessage(req.System))
	}

	for _, msg := range turns {
		switch msg.Role {
		case model.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result
}

// convertToAnthropicMessages converts a request to Anthropic format. The
// system prompt goes in its own parameter, not in the messages array.
func convertToAnthropicMessages(req model.ChatRequest) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var systemBlocks []anthropic.TextBlockParam
	if req.System != "" {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{Text: req.System})
	}

	turns := turnMessages(req.Messages)
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, msg := range turns {
		switch msg.Role {
		case model.RoleAssistant:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)),
			)
		default:
			anthropicMsgs = append(anthropicMsgs,
				anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)),
			)
		}
	}

	return anthropicMsgs, systemBlocks
}
