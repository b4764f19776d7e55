package model

import (
	"context"
	"fmt"
	"sync"

	"paperhub/config"
	"paperhub/storage"
)

// LikeLedger remembers which tools this client has liked.
// *storage.Prefs implements it.
type LikeLedger interface {
	HasLiked(toolID string) bool
	SetLiked(toolID string, liked bool) error
}

// LikeTracker is the like counter reconciler. Likes only move forward and
// the counter is written back as known+1, so concurrent likes from other
// clients race with last write wins.
type LikeTracker struct {
	store  storage.Store
	bus    *Bus
	ledger LikeLedger

	mu     sync.Mutex
	counts map[string]int
}

func NewLikeTracker(store storage.Store, bus *Bus, ledger LikeLedger) *LikeTracker {
	return &LikeTracker{
		store:  store,
		bus:    bus,
		ledger: ledger,
		counts: make(map[string]int),
	}
}

// Liked reports whether this client already liked toolID.
func (t *LikeTracker) Liked(toolID string) bool {
	return t.ledger.HasLiked(toolID)
}

// Count fetches the stored counter. seed is shown for tools that have no
// stored likes yet.
func (t *LikeTracker) Count(ctx context.Context, toolID string, seed int) (int, error) {
	n, err := t.store.GetLikes(ctx, toolID)
	if err != nil {
		return t.Known(toolID, seed), err
	}
	if n == 0 {
		n = seed
	}

	t.mu.Lock()
	t.counts[toolID] = n
	t.mu.Unlock()
	return n, nil
}

// Known returns the last count seen for toolID, or seed.
func (t *LikeTracker) Known(toolID string, seed int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n, ok := t.counts[toolID]; ok {
		return n
	}
	return seed
}

// Like increments the tool's counter once per client. A repeated like is a
// no-op without a network call. The local flag is set before the store
// confirms and cleared again if the write fails.
func (t *LikeTracker) Like(ctx context.Context, toolID string, seed int) (int, error) {
	if t.ledger.HasLiked(toolID) {
		return t.Known(toolID, seed), nil
	}

	if err := t.ledger.SetLiked(toolID, true); err != nil {
		return 0, fmt.Errorf("failed to record like: %w", err)
	}

	next := t.Known(toolID, seed) + 1
	if err := t.store.SetLikes(ctx, toolID, next); err != nil {
		if rbErr := t.ledger.SetLiked(toolID, false); rbErr != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Likes] Failed to clear like flag for %s: %v", toolID, rbErr)
		}
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Likes] Like on %s rolled back: %v", toolID, err)
		}
		return t.Known(toolID, seed), fmt.Errorf("failed to like: %w", err)
	}

	t.mu.Lock()
	t.counts[toolID] = next
	t.mu.Unlock()

	if t.bus != nil {
		t.bus.Publish(CountEvent{ToolID: toolID, Kind: CountLikes, Count: next})
	}
	return next, nil
}
