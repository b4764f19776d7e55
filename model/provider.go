package model

import (
	"context"
)

// Provider abstracts the chat backends (hosted endpoint, local daemon,
// in-process worker) behind one streaming contract.
//
// This interface is defined in the model package (not provider package) to avoid
// import cycles: provider implementations can import model, and model can use the
// Provider interface without importing the provider package.
type Provider interface {
	// Chat sends the request and streams fragments back via callback, in
	// arrival order. A nil return is the terminal marker: no more fragments
	// follow for this call. A non-nil return is fatal for this call only.
	Chat(ctx context.Context, req ChatRequest, callback StreamCallback) error

	// GetModel returns the currently selected model name.
	GetModel() string

	// SetModel changes the active model.
	SetModel(model string)

	// Ping checks if the backend is reachable.
	Ping(ctx context.Context) error
}

// ChatRequest is one turn's input to a backend.
//
// System is the fully synthesized system prompt. Context carries the raw
// attachment text for backends that build the prompt server-side (the hosted
// endpoint); the others ignore it.
type ChatRequest struct {
	System   string
	Context  string
	Messages []Message
}

// StreamCallback is called for each fragment of a streamed response.
// Returning an error aborts the stream.
type StreamCallback func(chunk string) error
