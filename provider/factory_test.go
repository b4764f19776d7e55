package provider

import (
	"errors"
	"testing"

	"paperhub/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
		expectType  string
	}{
		{
			name:       "hosted with defaults",
			config:     Config{Type: ProviderTypeHosted},
			expectType: "*provider.HostedProvider",
		},
		{
			name:        "hosted with bad scheme",
			config:      Config{Type: ProviderTypeHosted, BaseURL: "ftp://example.com/api/chat"},
			expectError: true,
		},
		{
			name:       "ollama provider with defaults",
			config:     Config{Type: ProviderTypeOllama},
			expectType: "*provider.OllamaProvider",
		},
		{
			name: "ollama provider with custom config",
			config: Config{
				Type:    ProviderTypeOllama,
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
			expectType: "*provider.OllamaProvider",
		},
		{
			name: "openai provider",
			config: Config{
				Type:   ProviderTypeOpenAI,
				Model:  "gpt-4o-mini",
				APIKey: "test-key",
			},
			expectType: "*provider.OpenAIProvider",
		},
		{
			name:        "openai without key",
			config:      Config{Type: ProviderTypeOpenAI},
			expectError: true,
		},
		{
			name: "anthropic provider",
			config: Config{
				Type:   ProviderTypeAnthropic,
				Model:  "claude-sonnet-4-5-20250929",
				APIKey: "test-key",
			},
			expectType: "*provider.AnthropicProvider",
		},
		{
			name: "worker over ollama",
			config: Config{
				Type:   ProviderTypeWorker,
				Model:  "Qwen2.5-3B-Instruct-q4f16_1-MLC",
				Engine: &Config{Type: ProviderTypeOllama},
			},
			expectType: "*provider.WorkerProvider",
		},
		{
			name:        "worker without engine",
			config:      Config{Type: ProviderTypeWorker},
			expectError: true,
		},
		{
			name: "worker over worker",
			config: Config{
				Type:   ProviderTypeWorker,
				Engine: &Config{Type: ProviderTypeWorker},
			},
			expectError: true,
		},
		{
			name: "worker with invalid engine",
			config: Config{
				Type:   ProviderTypeWorker,
				Engine: &Config{Type: ProviderTypeAnthropic},
			},
			expectError: true,
		},
		{
			name:        "unknown provider type",
			config:      Config{Type: ProviderType("unknown")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if p != nil {
					t.Errorf("expected nil provider, got %T", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var _ model.Provider = p
			if got := typeName(p); got != tt.expectType {
				t.Errorf("type = %s, want %s", got, tt.expectType)
			}
		})
	}
}

func typeName(p model.Provider) string {
	switch p.(type) {
	case *HostedProvider:
		return "*provider.HostedProvider"
	case *OllamaProvider:
		return "*provider.OllamaProvider"
	case *OpenAIProvider:
		return "*provider.OpenAIProvider"
	case *AnthropicProvider:
		return "*provider.AnthropicProvider"
	case *WorkerProvider:
		return "*provider.WorkerProvider"
	default:
		return "unknown"
	}
}

func TestMapBackendToType(t *testing.T) {
	tests := []struct {
		name string
		want ProviderType
	}{
		{"hosted", ProviderTypeHosted},
		{"ollama", ProviderTypeOllama},
		{"worker", ProviderTypeWorker},
		{"openai", ProviderTypeOpenAI},
		{"anthropic", ProviderTypeAnthropic},
		{"gemini", ProviderType("gemini")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapBackendToType(tt.name); got != tt.want {
				t.Errorf("MapBackendToType(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestKeyedBackendsRequireKey(t *testing.T) {
	for _, typ := range []ProviderType{ProviderTypeOpenAI, ProviderTypeAnthropic} {
		t.Run(string(typ), func(t *testing.T) {
			_, err := NewProvider(Config{Type: typ})
			if !errors.Is(err, ErrMissingAPIKey) {
				t.Errorf("NewProvider(%s) error = %v, want ErrMissingAPIKey", typ, err)
			}
		})
	}
}

func TestAnthropicDefaults(t *testing.T) {
	p, err := NewAnthropicProvider("", "test-key", "")
	if err != nil {
		t.Fatal(err)
	}
	if got := p.GetModel(); got != string(anthropicDefaultModel) {
		t.Errorf("GetModel() = %q, want %q", got, anthropicDefaultModel)
	}
	models, _ := p.ListModels(t.Context())
	if len(models) != len(anthropicModels) {
		t.Errorf("ListModels() returned %d models, want %d", len(models), len(anthropicModels))
	}
}
