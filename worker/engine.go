package worker

import (
	"context"
	"fmt"

	"paperhub/model"
)

// Engine is the model runtime a Worker owns.
type Engine interface {
	// Reload loads modelID, replacing any loaded model, and reports
	// progress while doing so.
	Reload(ctx context.Context, modelID string, progress func(Progress)) error
	// Generate streams a reply for the conversation. An error returned by
	// onChunk stops generation.
	Generate(ctx context.Context, system string, messages []model.Message, onChunk func(string) error) error
	// Unload releases the model.
	Unload()
}

// ProviderEngine runs generation on a model.Provider built for the loaded
// model id, e.g. a local daemon or a cloud API.
type ProviderEngine struct {
	build    func(modelID string) (model.Provider, error)
	provider model.Provider
}

func NewProviderEngine(build func(modelID string) (model.Provider, error)) *ProviderEngine {
	return &ProviderEngine{build: build}
}

func (e *ProviderEngine) Reload(ctx context.Context, modelID string, progress func(Progress)) error {
	progress(Progress{Percent: 0, Text: "Initializing engine"})

	p, err := e.build(modelID)
	if err != nil {
		return err
	}

	progress(Progress{Percent: 50, Text: fmt.Sprintf("Connecting to %s", modelID)})
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("engine unreachable: %w", err)
	}

	e.provider = p
	progress(Progress{Percent: 100, Text: "Finish loading"})
	return nil
}

func (e *ProviderEngine) Generate(ctx context.Context, system string, messages []model.Message, onChunk func(string) error) error {
	if e.provider == nil {
		return fmt.Errorf("model is not loaded yet")
	}
	return e.provider.Chat(ctx, model.ChatRequest{System: system, Messages: messages}, func(chunk string) error {
		return onChunk(chunk)
	})
}

func (e *ProviderEngine) Unload() {
	e.provider = nil
}

var _ Engine = (*ProviderEngine)(nil)
