// Package worker runs a chat model on its own goroutine and talks to it
// only through messages: requests go in, events come out.
package worker

import "paperhub/model"

// RequestKind tags a Request.
type RequestKind string

const (
	RequestLoad     RequestKind = "load"
	RequestGenerate RequestKind = "generate"
	RequestAbort    RequestKind = "abort"
)

// Request is sent to the worker. ModelID is used by load; System and
// Messages by generate; abort carries nothing.
type Request struct {
	Kind     RequestKind
	ModelID  string
	System   string
	Messages []model.Message
}

// EventKind tags an Event.
type EventKind string

const (
	EventProgress EventKind = "progress"
	EventStatus   EventKind = "status"
	EventChunk    EventKind = "chunk"
	EventDone     EventKind = "done"
	EventError    EventKind = "error"
)

// StatusReady is the status payload sent once a model is loaded.
const StatusReady = "ready"

// Progress reports model load progress. Percent is 0-100.
type Progress struct {
	Percent float64
	Text    string
}

// Event is emitted by the worker. Exactly one payload field is meaningful,
// selected by Kind.
type Event struct {
	Kind     EventKind
	Progress Progress // progress
	Status   string   // status
	Text     string   // chunk
	Err      string   // error
}

func LoadRequest(modelID string) Request {
	return Request{Kind: RequestLoad, ModelID: modelID}
}

func GenerateRequest(system string, messages []model.Message) Request {
	return Request{Kind: RequestGenerate, System: system, Messages: messages}
}

func AbortRequest() Request {
	return Request{Kind: RequestAbort}
}
