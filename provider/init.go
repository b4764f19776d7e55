package provider

import (
	"fmt"

	"paperhub/config"
	"paperhub/model"
	"paperhub/worker"
)

// FromConfig creates the chat backend selected by cfg.Chat.Backend.
//
// onProgress observes model load progress when the backend is "worker" and
// is ignored otherwise.
//
// Example:
//
//	p, err := provider.FromConfig(cfg, func(pr worker.Progress) {
//	    program.Send(model.LoadProgressMsg{Percent: pr.Percent, Text: pr.Text})
//	})
func FromConfig(cfg *config.Config, onProgress func(worker.Progress)) (model.Provider, error) {
	pc, err := chatConfig(cfg)
	if err != nil {
		return nil, err
	}
	pc.OnProgress = onProgress

	p, err := NewProvider(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", cfg.Chat.Backend, err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Provider] Initialized %s backend (model: %s)", cfg.Chat.Backend, p.GetModel())
	}
	return p, nil
}

func chatConfig(cfg *config.Config) (Config, error) {
	switch MapBackendToType(cfg.Chat.Backend) {
	case ProviderTypeHosted:
		return Config{Type: ProviderTypeHosted, BaseURL: cfg.Hosted.URL}, nil
	case ProviderTypeOllama:
		return Config{Type: ProviderTypeOllama, BaseURL: cfg.OllamaURL(), Model: cfg.Model()}, nil
	case ProviderTypeWorker:
		engine := engineConfig(cfg, cfg.Worker.Engine, cfg.Worker.BaseURL, "")
		return Config{Type: ProviderTypeWorker, Model: cfg.Worker.ModelID, Engine: &engine}, nil
	default:
		return Config{}, fmt.Errorf("unknown chat backend: %s", cfg.Chat.Backend)
	}
}

// UpstreamFromConfig creates the model server the chat endpoint proxies to
// (cfg.Server.Upstream).
func UpstreamFromConfig(cfg *config.Config) (model.Provider, error) {
	pc := engineConfig(cfg, cfg.Server.Upstream, "", cfg.Server.UpstreamModel)
	p, err := NewProvider(pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s upstream: %w", cfg.Server.Upstream, err)
	}
	return p, nil
}

// engineConfig resolves a daemon or cloud engine name. An empty baseURL
// falls back to the configured Ollama host for "ollama" and to the SDK
// default otherwise.
func engineConfig(cfg *config.Config, engine, baseURL, modelName string) Config {
	t := MapBackendToType(engine)
	pc := Config{Type: t, BaseURL: baseURL, Model: modelName}
	switch t {
	case ProviderTypeOllama:
		if pc.BaseURL == "" {
			pc.BaseURL = cfg.OllamaURL()
		}
	case ProviderTypeOpenAI, ProviderTypeAnthropic:
		pc.APIKey = cfg.APIKey(engine)
	}
	return pc
}
