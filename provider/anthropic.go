package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"paperhub/model"
	"paperhub/ollama"
)

// ErrMissingAPIKey is returned by the constructors of keyed backends.
var ErrMissingAPIKey = errors.New("API key is required")

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicDefaultModel = anthropic.ModelClaudeSonnet4_5_20250929
)

// anthropicModels is what the model picker offers; the API has no cheap
// listing call that fits the picker.
var anthropicModels = []anthropic.Model{
	anthropic.ModelClaudeSonnet4_5_20250929,
	anthropic.ModelClaude3_5Haiku20241022,
}

// AnthropicProvider streams turns from the Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider builds a client for baseURL (the public API when
// empty). model falls back to Claude Sonnet 4.5.
func NewAnthropicProvider(baseURL, apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}
	if baseURL == "" {
		baseURL = anthropicBaseURL
	}
	p := &AnthropicProvider{
		client: anthropic.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
		model:  anthropicDefaultModel,
	}
	if model != "" {
		p.model = anthropic.Model(model)
	}
	return p, nil
}

// Chat forwards text deltas to callback. Other stream events (message
// start/stop, tool use) are ignored.
func (p *AnthropicProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	messages, system := convertToAnthropicMessages(req)
	params := anthropic.MessageNewParams{
		Model:       p.model,
		Messages:    messages,
		System:      system,
		MaxTokens:   DefaultMaxTokens,
		Temperature: anthropic.Float(DefaultTemperature),
	}

	stream := p.client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	for stream.Next() {
		delta, ok := stream.Current().AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" || callback == nil {
			continue
		}
		if err := callback(text.Text); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("anthropic stream: %w", err)
	}
	return nil
}

func (p *AnthropicProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	out := make([]ollama.ModelInfo, len(anthropicModels))
	for i, m := range anthropicModels {
		out[i] = ollama.ModelInfo{Name: string(m)}
	}
	return out, nil
}

func (p *AnthropicProvider) GetModel() string      { return string(p.model) }
func (p *AnthropicProvider) SetModel(model string) { p.model = anthropic.Model(model) }

// Ping sends a one-token request, since a key that reaches the API but lacks
// access to the model should fail here rather than on the first turn.
func (p *AnthropicProvider) Ping(ctx context.Context) error {
	_, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 1,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock("ping"))},
	})
	if err != nil {
		return fmt.Errorf("anthropic ping: %w", err)
	}
	return nil
}
