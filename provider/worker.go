package provider

import (
	"context"
	"errors"
	"sync"

	"paperhub/config"
	"paperhub/model"
	"paperhub/worker"
)

// WorkerProvider runs turns on an in-process worker.Worker. The model is
// loaded lazily on the first turn (or by Load), and progress is reported
// through onProgress.
//
// Turns are serialized: the worker has a single event stream, so a second
// Chat waits for the first to finish.
type WorkerProvider struct {
	mu         sync.Mutex
	modelID    string
	build      func(modelID string) (model.Provider, error)
	onProgress func(worker.Progress)

	w      *worker.Worker
	loaded bool
}

// NewWorkerProvider creates a worker-backed provider. build constructs the
// engine's upstream for a model id.
func NewWorkerProvider(modelID string, build func(modelID string) (model.Provider, error), onProgress func(worker.Progress)) *WorkerProvider {
	if modelID == "" {
		modelID = config.DefaultWorkerModelID
	}
	return &WorkerProvider{
		modelID:    modelID,
		build:      build,
		onProgress: onProgress,
	}
}

// Load starts the worker if needed and loads the model. It is a no-op once
// the model is ready.
func (p *WorkerProvider) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loadLocked(ctx)
}

func (p *WorkerProvider) loadLocked(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	if p.w == nil {
		p.w = worker.New(worker.NewProviderEngine(p.build))
	}
	if err := p.w.Send(worker.LoadRequest(p.modelID)); err != nil {
		return err
	}

	for {
		select {
		case ev, ok := <-p.w.Events():
			if !ok {
				p.w = nil
				return worker.ErrClosed
			}
			switch ev.Kind {
			case worker.EventProgress:
				if config.DebugLog != nil {
					config.DebugLog.Printf("[Worker] %.0f%% %s", ev.Progress.Percent, ev.Progress.Text)
				}
				if p.onProgress != nil {
					p.onProgress(ev.Progress)
				}
			case worker.EventStatus:
				if ev.Status == worker.StatusReady {
					p.loaded = true
					return nil
				}
			case worker.EventError:
				return errors.New(ev.Err)
			}
		case <-ctx.Done():
			// A load cannot be aborted; drop the worker so its late events
			// do not reach the next turn.
			p.w.Close()
			p.w = nil
			return ctx.Err()
		}
	}
}

// Chat implements Provider.Chat. Cancelling ctx sends an abort and waits for
// the worker to acknowledge it before returning ctx.Err().
func (p *WorkerProvider) Chat(ctx context.Context, req model.ChatRequest, callback model.StreamCallback) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.loadLocked(ctx); err != nil {
		return err
	}
	if err := p.w.Send(worker.GenerateRequest(req.System, turnMessages(req.Messages))); err != nil {
		return err
	}

	var stopErr error
	done := ctx.Done()
	for {
		select {
		case ev, ok := <-p.w.Events():
			if !ok {
				p.w, p.loaded = nil, false
				return worker.ErrClosed
			}
			switch ev.Kind {
			case worker.EventChunk:
				if stopErr != nil || callback == nil {
					continue
				}
				if err := callback(ev.Text); err != nil {
					stopErr = err
					p.w.Send(worker.AbortRequest())
				}
			case worker.EventDone:
				return stopErr
			case worker.EventError:
				if stopErr != nil {
					return stopErr
				}
				return errors.New(ev.Err)
			}
		case <-done:
			done = nil
			if stopErr == nil {
				stopErr = ctx.Err()
			}
			p.w.Send(worker.AbortRequest())
		}
	}
}

func (p *WorkerProvider) GetModel() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.modelID
}

// SetModel switches the model id. The running worker is closed and the new
// model is loaded on the next turn.
func (p *WorkerProvider) SetModel(modelID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if modelID == p.modelID {
		return
	}
	p.modelID = modelID
	p.closeLocked()
}

// Ping checks the engine's upstream without loading the model.
func (p *WorkerProvider) Ping(ctx context.Context) error {
	upstream, err := p.build(p.GetModel())
	if err != nil {
		return err
	}
	return upstream.Ping(ctx)
}

// Close stops the worker.
func (p *WorkerProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
}

func (p *WorkerProvider) closeLocked() {
	if p.w != nil {
		p.w.Close()
	}
	p.w, p.loaded = nil, false
}
