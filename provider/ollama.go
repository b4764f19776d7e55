package provider

import (
	"context"
	"fmt"

	"paperhub/model"
	"paperhub/ollama"
)

// OllamaProvider adapts ollama.Client to model.Provider. The system prompt
// is sent as the leading system message and the shared generation defaults
// as daemon options.
type OllamaProvider struct {
	client *ollama.Client
}

// NewOllamaProvider connects to the daemon at baseURL. Empty arguments take
// the client's defaults (localhost:11434, ollama.DefaultModel).
func NewOllamaProvider(baseURL, model string) (*OllamaProvider, error) {
	client, err := ollama.NewClient(baseURL, model)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	client.SetOptions(map[string]any{
		"temperature": DefaultTemperature,
		"num_predict": DefaultMaxTokens,
	})
	return &OllamaProvider{client: client}, nil
}

// Chat streams fragments in arrival order. A nil callback drains the reply.
func (p *OllamaProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	if callback == nil {
		callback = func(string) error { return nil }
	}
	return p.client.Chat(ctx, ConvertToOllamaMessages(req), ollama.StreamCallback(callback))
}

func (p *OllamaProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return p.client.ListModels(ctx)
}

func (p *OllamaProvider) GetModel() string               { return p.client.GetModel() }
func (p *OllamaProvider) SetModel(model string)          { p.client.SetModel(model) }
func (p *OllamaProvider) Ping(ctx context.Context) error { return p.client.Ping(ctx) }
