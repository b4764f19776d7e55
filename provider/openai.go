package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"paperhub/model"
	"paperhub/ollama"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIProvider streams chat completions. Any OpenAI-compatible server
// works by pointing baseURL at it.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

func NewOpenAIProvider(baseURL, apiKey, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = openAIBaseURL
	}
	if model == "" {
		model = openAIDefaultModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// Chat forwards the first choice's content deltas to callback.
func (p *OpenAIProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.model),
		Messages:            ConvertToOpenAIMessages(req),
		Temperature:         openai.Float(DefaultTemperature),
		MaxCompletionTokens: openai.Int(DefaultMaxTokens),
	})
	defer stream.Close()

	for stream.Next() {
		choices := stream.Current().Choices
		if len(choices) == 0 || choices[0].Delta.Content == "" || callback == nil {
			continue
		}
		if err := callback(choices[0].Delta.Content); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	return nil
}

// ListModels returns every model id the key can see.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("openai list models: %w", err)
	}
	out := make([]ollama.ModelInfo, len(page.Data))
	for i, m := range page.Data {
		out[i] = ollama.ModelInfo{Name: m.ID}
	}
	return out, nil
}

func (p *OpenAIProvider) GetModel() string      { return p.model }
func (p *OpenAIProvider) SetModel(model string) { p.model = model }

func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai ping: %w", err)
	}
	return nil
}
