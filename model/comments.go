package model

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"paperhub/config"
	"paperhub/storage"
)

// CommentDraft holds the comment form fields.
type CommentDraft struct {
	Nickname string
	Body     string
	Password string
}

// CommentBoard shows one tool's comments and applies add/delete
// optimistically against the store, rolling back on failure. Each call
// reconciles only its own entry, so a reload that lands while an add or
// delete is in flight keeps that change pending.
type CommentBoard struct {
	ToolID string

	store storage.Store
	bus   *Bus

	mu       sync.Mutex
	comments []storage.Comment
	draft    CommentDraft
	pending  map[string]bool // temp ids of adds in flight
	deleting map[string]bool // ids of deletes in flight
	settled  uint64          // bumped whenever an add or delete finishes
}

// reloadAttempts bounds how often Load refetches because an add or delete
// finished while the list was in flight.
const reloadAttempts = 3

func NewCommentBoard(toolID string, store storage.Store, bus *Bus) *CommentBoard {
	return &CommentBoard{
		ToolID:   toolID,
		store:    store,
		bus:      bus,
		pending:  make(map[string]bool),
		deleting: make(map[string]bool),
	}
}

// Comments returns a snapshot of the visible list, newest first.
func (b *CommentBoard) Comments() []storage.Comment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]storage.Comment, len(b.comments))
	copy(out, b.comments)
	return out
}

func (b *CommentBoard) SetDraft(d CommentDraft) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = d
}

func (b *CommentBoard) CurrentDraft() CommentDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

// Load replaces the visible list with the store's. Optimistic comments
// still being posted stay on top, and comments being deleted stay hidden.
// A list fetched before an add or delete settled is refetched, so it cannot
// undo that change.
func (b *CommentBoard) Load(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		b.mu.Lock()
		seen := b.settled
		b.mu.Unlock()

		comments, err := b.store.ListComments(ctx, b.ToolID)
		if err != nil {
			return err
		}

		b.mu.Lock()
		if b.settled != seen && attempt < reloadAttempts {
			b.mu.Unlock()
			continue
		}
		merged := make([]storage.Comment, 0, len(comments)+len(b.pending))
		for _, c := range b.comments {
			if b.pending[c.ID] {
				merged = append(merged, c)
			}
		}
		for _, c := range comments {
			if !b.deleting[c.ID] {
				merged = append(merged, c)
			}
		}
		b.comments = merged
		n := len(b.comments)
		b.mu.Unlock()

		b.publish(n)
		return nil
	}
}

// Submit posts the current draft.
//
// The comment is shown immediately under a temporary id and the draft is
// cleared. On success the server's comment takes its place; on failure it
// is removed and the draft restored.
func (b *CommentBoard) Submit(ctx context.Context) error {
	b.mu.Lock()
	draft := b.draft
	if strings.TrimSpace(draft.Body) == "" || draft.Password == "" {
		b.mu.Unlock()
		return ErrInvalidComment
	}

	tempID := "temp-" + uuid.New().String()
	optimistic := storage.Comment{
		ID:        tempID,
		ToolID:    b.ToolID,
		Nickname:  storage.NormalizeNickname(draft.Nickname),
		Body:      draft.Body,
		CreatedAt: time.Now(),
	}
	b.comments = append([]storage.Comment{optimistic}, b.comments...)
	b.pending[tempID] = true
	b.draft = CommentDraft{}
	b.mu.Unlock()

	saved, err := b.store.AddComment(ctx, storage.NewComment{
		ToolID:   b.ToolID,
		Nickname: draft.Nickname,
		Body:     draft.Body,
		Password: draft.Password,
	})

	b.mu.Lock()
	delete(b.pending, tempID)
	b.settled++
	idx := b.indexLocked(tempID)
	if err != nil {
		if idx >= 0 {
			b.removeLocked(idx)
		}
		b.draft = draft
		b.mu.Unlock()

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Comments] Add on %s rolled back: %v", b.ToolID, err)
		}
		return fmt.Errorf("failed to post comment: %w", err)
	}
	switch {
	case b.indexLocked(saved.ID) >= 0:
		// A reload already picked up the saved comment.
		if idx >= 0 {
			b.removeLocked(idx)
		}
	case idx >= 0:
		b.comments[idx] = saved
	default:
		b.comments = append([]storage.Comment{saved}, b.comments...)
	}
	n := len(b.comments)
	b.mu.Unlock()

	b.publish(n)
	return nil
}

// Delete removes a comment optimistically and asks the store to delete it
// with password. On failure the comment is restored at its old position.
// Use errors.Is(err, storage.ErrWrongPassword) to tell an authorization
// failure from a server error.
func (b *CommentBoard) Delete(ctx context.Context, id, password string) error {
	if password == "" {
		return ErrInvalidComment
	}

	b.mu.Lock()
	idx := b.indexLocked(id)
	if idx < 0 {
		b.mu.Unlock()
		return storage.ErrNotFound
	}
	removed := b.comments[idx]
	b.removeLocked(idx)
	b.deleting[id] = true
	b.mu.Unlock()

	err := b.store.DeleteComment(ctx, id, password)

	b.mu.Lock()
	delete(b.deleting, id)
	b.settled++
	if err != nil {
		if b.indexLocked(id) < 0 {
			pos := min(idx, len(b.comments))
			b.comments = slices.Insert(b.comments, pos, removed)
		}
		b.mu.Unlock()

		if config.DebugLog != nil {
			config.DebugLog.Printf("[Comments] Delete of %s rolled back: %v", id, err)
		}
		if errors.Is(err, storage.ErrWrongPassword) {
			return fmt.Errorf("cannot delete comment: %w", err)
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	n := len(b.comments)
	b.mu.Unlock()

	b.publish(n)
	return nil
}

func (b *CommentBoard) publish(n int) {
	if b.bus != nil {
		b.bus.Publish(CountEvent{ToolID: b.ToolID, Kind: CountComments, Count: n})
	}
}

func (b *CommentBoard) removeLocked(i int) {
	b.comments = slices.Delete(b.comments, i, i+1)
}

func (b *CommentBoard) indexLocked(id string) int {
	for i, c := range b.comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
