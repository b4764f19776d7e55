package provider

import (
	"fmt"

	"paperhub/model"
)

// NewProvider creates a provider based on configuration.
//
// Supported provider types:
//   - ProviderTypeHosted: PaperHub /api/chat endpoint
//   - ProviderTypeOllama: local Ollama daemon
//   - ProviderTypeWorker: in-process worker; cfg.Engine selects the upstream
//   - ProviderTypeOpenAI: OpenAI-compatible API (API key required)
//   - ProviderTypeAnthropic: Anthropic API (API key required)
//
// Returns an error if the type is unknown or the backend-specific
// constructor fails (e.g., invalid URL, missing API key).
//
// Example (worker over a local daemon):
//
//	cfg := provider.Config{
//	    Type:  provider.ProviderTypeWorker,
//	    Model: "Qwen2.5-3B-Instruct-q4f16_1-MLC",
//	    Engine: &provider.Config{
//	        Type:    provider.ProviderTypeOllama,
//	        BaseURL: "http://localhost:11434",
//	    },
//	}
//	p, err := provider.NewProvider(cfg)
func NewProvider(cfg Config) (model.Provider, error) {
	switch cfg.Type {
	case ProviderTypeHosted:
		return asProvider(NewHostedProvider(cfg.BaseURL, nil))
	case ProviderTypeOllama:
		return asProvider(NewOllamaProvider(cfg.BaseURL, cfg.Model))
	case ProviderTypeOpenAI:
		return asProvider(NewOpenAIProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
	case ProviderTypeAnthropic:
		return asProvider(NewAnthropicProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
	case ProviderTypeWorker:
		if cfg.Engine == nil {
			return nil, fmt.Errorf("worker provider requires an engine")
		}
		if cfg.Engine.Type == ProviderTypeWorker || cfg.Engine.Type == ProviderTypeHosted {
			return nil, fmt.Errorf("unsupported worker engine: %s", cfg.Engine.Type)
		}
		engineCfg := *cfg.Engine
		if _, err := NewProvider(engineCfg); err != nil {
			return nil, fmt.Errorf("invalid worker engine: %w", err)
		}
		return NewWorkerProvider(cfg.Model, func(modelID string) (model.Provider, error) {
			c := engineCfg
			c.Model = modelID
			return NewProvider(c)
		}, cfg.OnProgress), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// asProvider keeps a failed constructor from returning a non-nil interface
// holding a nil pointer.
func asProvider[P model.Provider](p P, err error) (model.Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MapBackendToType converts a config backend/engine name to a ProviderType.
// Unknown names are passed through and rejected by NewProvider.
func MapBackendToType(name string) ProviderType {
	switch name {
	case "hosted":
		return ProviderTypeHosted
	case "ollama":
		return ProviderTypeOllama
	case "worker":
		return ProviderTypeWorker
	case "openai":
		return ProviderTypeOpenAI
	case "anthropic":
		return ProviderTypeAnthropic
	default:
		return ProviderType(name)
	}
}
