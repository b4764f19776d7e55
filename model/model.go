package model

import (
	"sync"
	"time"

	"paperhub/config"
	"paperhub/storage"
)

// Model holds the core application data and business logic state
type Model struct {
	// Core dependencies
	Config    *config.Config
	Provider  Provider
	Store     storage.Store
	Prefs     *storage.Prefs
	Extractor Extractor

	// Application data
	Session *Session
	Bus     *Bus
	Likes   *LikeTracker

	// Runtime state (not UI)
	Loading  bool
	Progress LoadProgressMsg
	Quitting bool

	Version string

	mu       sync.Mutex
	boards   map[string]*CommentBoard
	unsubs   map[string]func()
	counts   chan CountEvent
	progress chan LoadProgressMsg
	saved    chan PrefsSavedMsg
}

// NewModel wires the session, reconcilers and count bus around the given
// backend and store. prefs may be nil, in which case likes are tracked for
// the lifetime of the process only.
func NewModel(cfg *config.Config, provider Provider, store storage.Store, prefs *storage.Prefs, extractor Extractor, version string) *Model {
	basePrompt := ""
	if cfg != nil {
		basePrompt = cfg.Chat.DefaultSystemPrompt
	}

	var ledger LikeLedger = newMemoryLedger()
	if prefs != nil {
		ledger = prefs
	}

	bus := NewBus()
	m := &Model{
		Config:    cfg,
		Provider:  provider,
		Store:     store,
		Prefs:     prefs,
		Extractor: extractor,
		Session:   NewSession(basePrompt),
		Bus:       bus,
		Likes:     NewLikeTracker(store, bus, ledger),
		Version:   version,
		boards:    make(map[string]*CommentBoard),
		unsubs:    make(map[string]func()),
		counts:    make(chan CountEvent, 32),
		progress:  make(chan LoadProgressMsg, 32),
		saved:     make(chan PrefsSavedMsg, 1),
	}
	if prefs != nil {
		prefs.OnChange(m.notePrefsSaved)
	}

	if config.DebugLog != nil {
		name := "none"
		if provider != nil {
			name = provider.GetModel()
		}
		config.DebugLog.Printf("[Model] NewModel: backend model %s", name)
	}

	return m
}

// Board returns the comment board for toolID, creating it and subscribing
// to its counters on first use.
func (m *Model) Board(toolID string) *CommentBoard {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.boards[toolID]; ok {
		return b
	}
	b := NewCommentBoard(toolID, m.Store, m.Bus)
	m.boards[toolID] = b
	m.unsubs[toolID] = m.Bus.Subscribe(toolID, m.forwardCount)
	return b
}

// forwardCount hands bus events to the event loop. Events are dropped when
// nobody is draining the channel.
func (m *Model) forwardCount(ev CountEvent) {
	select {
	case m.counts <- ev:
	default:
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Dropped count event for %s (%s=%d)", ev.ToolID, ev.Kind, ev.Count)
		}
	}
}

// ReportProgress queues a model load update for the event loop. It is safe
// to call from any goroutine.
func (m *Model) ReportProgress(percent float64, text string) {
	select {
	case m.progress <- LoadProgressMsg{Percent: percent, Text: text}:
	default:
	}
}

// notePrefsSaved keeps only the latest save time when the event loop lags.
func (m *Model) notePrefsSaved() {
	msg := PrefsSavedMsg{At: time.Now()}
	for {
		select {
		case m.saved <- msg:
			return
		default:
		}
		select {
		case <-m.saved:
		default:
		}
	}
}

// Close drops every bus subscription.
func (m *Model) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, unsub := range m.unsubs {
		unsub()
		delete(m.unsubs, id)
	}
}

type memoryLedger struct {
	mu    sync.Mutex
	liked map[string]bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{liked: make(map[string]bool)}
}

func (l *memoryLedger) HasLiked(toolID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.liked[toolID]
}

func (l *memoryLedger) SetLiked(toolID string, liked bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if liked {
		l.liked[toolID] = true
	} else {
		delete(l.liked, toolID)
	}
	return nil
}
