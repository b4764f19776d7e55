package testutil

import (
	"context"
	"sync"

	"paperhub/model"
	"paperhub/ollama"
)

// MockProvider implements model.Provider for testing. Requests are recorded.
type MockProvider struct {
	// Configurable responses
	ChatFunc       func(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error
	ListModelsFunc func(ctx context.Context) ([]ollama.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	mu           sync.Mutex
	currentModel string
	requests     []model.ChatRequest
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.ChatFunc = mock.defaultChat
	mock.ListModelsFunc = mock.defaultListModels
	mock.PingFunc = mock.defaultPing
	return mock
}

// NewStreamingMock returns a mock that streams chunks in order and then
// returns err.
func NewStreamingMock(modelName string, chunks []string, err error) *MockProvider {
	mock := NewMockProvider(modelName)
	mock.ChatFunc = func(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := callback(c); err != nil {
				return err
			}
		}
		return err
	}
	return mock
}

func (m *MockProvider) defaultChat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	if len(req.Messages) > 0 {
		return callback("Mock response")
	}
	return nil
}

func (m *MockProvider) defaultListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return []ollama.ModelInfo{
		{Name: "mock-model-1", Size: 1000},
		{Name: "mock-model-2", Size: 2000},
	}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req, callback)
}

// Requests returns the requests seen by Chat so far.
func (m *MockProvider) Requests() []model.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.ChatRequest(nil), m.requests...)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
