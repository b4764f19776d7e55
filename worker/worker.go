package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"paperhub/config"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("worker is closed")

const eventBuffer = 64

// Worker owns one Engine. Load and generate requests are handled one at a
// time in arrival order; abort is handled immediately and interrupts the
// generation in progress, which then ends with a done event.
type Worker struct {
	engine   Engine
	requests chan job
	events   chan Event

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.Mutex
	loaded    string
	genID     int
	cancelGen context.CancelFunc
}

// job is a queued request. Generate jobs get their context in Send so an
// abort that follows Send always reaches them.
type job struct {
	Request
	ctx   context.Context
	genID int
}

// New starts a worker goroutine for engine.
func New(engine Engine) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		engine:   engine,
		requests: make(chan job),
		events:   make(chan Event, eventBuffer),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.run()
	return w
}

// Events is closed when the worker stops.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Send delivers a request. It blocks while the worker is busy with a
// previous load or generate.
func (w *Worker) Send(req Request) error {
	if req.Kind == RequestAbort {
		w.abort()
		return nil
	}

	j := job{Request: req}
	if req.Kind == RequestGenerate {
		ctx, cancel := context.WithCancel(w.ctx)
		w.mu.Lock()
		w.genID++
		j.ctx, j.genID = ctx, w.genID
		w.cancelGen = cancel
		w.mu.Unlock()
	}

	select {
	case w.requests <- j:
		return nil
	case <-w.ctx.Done():
		return ErrClosed
	}
}

// Close stops the worker, interrupting any generation, and releases the
// engine. It waits for the worker goroutine to exit.
func (w *Worker) Close() {
	w.cancel()
	<-w.done
}

func (w *Worker) abort() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancelGen != nil {
		w.cancelGen()
	}
}

func (w *Worker) run() {
	defer close(w.done)
	defer close(w.events)
	defer w.engine.Unload()

	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.requests:
			switch j.Kind {
			case RequestLoad:
				w.load(j.ModelID)
			case RequestGenerate:
				w.generate(j)
			default:
				w.emit(Event{Kind: EventError, Err: fmt.Sprintf("unknown request: %q", j.Kind)})
			}
		}
	}
}

func (w *Worker) load(modelID string) {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Worker] Loading model %s", modelID)
	}

	err := w.engine.Reload(w.ctx, modelID, func(p Progress) {
		w.emit(Event{Kind: EventProgress, Progress: p})
	})
	if err != nil {
		w.emit(Event{Kind: EventError, Err: fmt.Sprintf("failed to load model %s: %v", modelID, err)})
		return
	}

	w.mu.Lock()
	w.loaded = modelID
	w.mu.Unlock()
	w.emit(Event{Kind: EventStatus, Status: StatusReady})
}

func (w *Worker) generate(j job) {
	ctx := j.ctx
	defer func() {
		w.mu.Lock()
		if w.genID == j.genID && w.cancelGen != nil {
			w.cancelGen()
			w.cancelGen = nil
		}
		w.mu.Unlock()
	}()

	w.mu.Lock()
	loaded := w.loaded
	w.mu.Unlock()
	if loaded == "" {
		w.emit(Event{Kind: EventError, Err: "model is not loaded yet"})
		return
	}

	err := w.engine.Generate(ctx, j.System, j.Messages, func(chunk string) error {
		if chunk != "" {
			w.emit(Event{Kind: EventChunk, Text: chunk})
		}
		return ctx.Err()
	})

	switch {
	case err == nil, ctx.Err() != nil && w.ctx.Err() == nil:
		// Interrupted generations finish normally.
		w.emit(Event{Kind: EventDone})
	default:
		w.emit(Event{Kind: EventError, Err: err.Error()})
	}
}

func (w *Worker) emit(ev Event) {
	select {
	case w.events <- ev:
	case <-w.ctx.Done():
	}
}
