// Package provider implements the chat backends behind model.Provider.
//
// PaperHub can answer a chat turn from three places: the hosted PaperHub
// endpoint (which proxies to a model server and synthesizes the system prompt
// from the attached document), a local Ollama daemon, or an in-process model
// worker. They are interchangeable behind one streaming contract so the
// session manager never knows which one it is talking to.
//
// # Backends
//
//   - provider.HostedProvider speaks the data-stream line protocol of /api/chat
//   - provider.OllamaProvider posts to the daemon's /api/chat and reads NDJSON
//   - provider.WorkerProvider drives a worker.Worker over its message protocol
//   - provider.OpenAIProvider and provider.AnthropicProvider are upstreams for
//     the server and engines for the worker
//
// # Usage
//
//	p, err := provider.NewProvider(provider.Config{
//	    Type:    provider.ProviderTypeOllama,
//	    BaseURL: "http://localhost:11434",
//	    Model:   "qwen3:4b-instruct-2507-q4_K_M",
//	})
//	if err != nil {
//	    // handle error
//	}
//	err = p.Chat(ctx, req, func(chunk string) error {
//	    fmt.Print(chunk)
//	    return nil
//	})
package provider

import "paperhub/worker"

// Note: The Provider interface and StreamCallback are defined in the model package
// (model/provider.go) to avoid import cycles. This package implements model.Provider.

// ProviderType identifies the provider implementation.
type ProviderType string

const (
	ProviderTypeHosted    ProviderType = "hosted"
	ProviderTypeOllama    ProviderType = "ollama"
	ProviderTypeWorker    ProviderType = "worker"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeAnthropic ProviderType = "anthropic"
)

// Generation defaults shared by the backends whose APIs take them.
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// Config holds provider-specific configuration.
type Config struct {
	Type    ProviderType
	BaseURL string
	Model   string
	APIKey  string // For OpenAI/Anthropic

	// Engine is the upstream a worker runs generation on (worker only).
	Engine *Config
	// OnProgress observes model load progress (worker only).
	OnProgress func(worker.Progress)
}
