package provider

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperhub/config"
	"paperhub/model"
	"paperhub/ollama"
)

const pingTimeout = 5 * time.Second

// PingBackendMsg is sent when a backend ping completes.
type PingBackendMsg struct {
	Model string
	Valid bool
	Err   error
}

// ModelsMsg is sent when a model list has been fetched.
type ModelsMsg struct {
	Models []ollama.ModelInfo
	Err    error
}

// ModelLister is implemented by backends that can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ollama.ModelInfo, error)
}

// PingBackend checks that p is reachable. Used at startup so the status bar
// can show an offline backend before the first turn fails.
func PingBackend(p model.Provider) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			return PingBackendMsg{
				Model: p.GetModel(),
				Valid: false,
				Err:   fmt.Errorf("connection failed: %w", err),
			}
		}

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Backend %s ping successful", p.GetModel())
		}
		return PingBackendMsg{Model: p.GetModel(), Valid: true}
	}
}

// FetchModels lists models when p supports it. Backends that do not return
// an empty list.
func FetchModels(p model.Provider) tea.Cmd {
	return func() tea.Msg {
		lister, ok := p.(ModelLister)
		if !ok {
			return ModelsMsg{}
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		models, err := lister.ListModels(ctx)
		if err != nil {
			return ModelsMsg{Err: err}
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Provider] Fetched %d models", len(models))
		}
		return ModelsMsg{Models: models}
	}
}

var (
	_ ModelLister = (*OllamaProvider)(nil)
	_ ModelLister = (*OpenAIProvider)(nil)
	_ ModelLister = (*AnthropicProvider)(nil)
)
