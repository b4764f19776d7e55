package model

import "sync"

// CountKind identifies which counter a CountEvent refers to.
type CountKind string

const (
	CountComments CountKind = "comments"
	CountLikes    CountKind = "likes"
)

// CountEvent announces a reconciled counter value for a tool.
type CountEvent struct {
	ToolID string
	Kind   CountKind
	Count  int
}

// Bus is a publish/subscribe channel keyed by tool id. It lets every view
// showing a tool's counters follow reconciler updates without re-fetching.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(CountEvent)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[int]func(CountEvent))}
}

// Subscribe registers fn for events about toolID. The returned func removes
// the subscription.
func (b *Bus) Subscribe(toolID string, fn func(CountEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.subs[toolID] == nil {
		b.subs[toolID] = make(map[int]func(CountEvent))
	}
	b.subs[toolID][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[toolID], id)
		if len(b.subs[toolID]) == 0 {
			delete(b.subs, toolID)
		}
	}
}

// Publish delivers ev to the tool's subscribers synchronously.
func (b *Bus) Publish(ev CountEvent) {
	b.mu.Lock()
	fns := make([]func(CountEvent), 0, len(b.subs[ev.ToolID]))
	for _, fn := range b.subs[ev.ToolID] {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
