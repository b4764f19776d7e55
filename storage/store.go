package storage

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultNickname is shown for comments posted without a nickname.
const DefaultNickname = "Researcher"

var (
	// ErrWrongPassword is returned when a delete presents the wrong password.
	ErrWrongPassword = errors.New("wrong password")

	// ErrNotFound is returned when the comment does not exist.
	ErrNotFound = errors.New("comment not found")

	// ErrInvalid is returned for requests the store rejects outright.
	ErrInvalid = errors.New("invalid request")
)

// Comment is a remote-owned comment on a catalog tool. The delete password
// never leaves the store.
type Comment struct {
	ID        string    `json:"id"`
	ToolID    string    `json:"tool_id"`
	Nickname  string    `json:"nickname"`
	Body      string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment is the payload for creating a comment.
type NewComment struct {
	ToolID   string `json:"tool_id"`
	Nickname string `json:"nickname"`
	Body     string `json:"content"`
	Password string `json:"password"`
}

// Store is the comments and likes backend. RemoteStore talks to the hosted
// API; SQLiteStore is the database behind it (and the local mode).
type Store interface {
	// ListComments returns a tool's comments, newest first.
	ListComments(ctx context.Context, toolID string) ([]Comment, error)
	CountComments(ctx context.Context, toolID string) (int, error)
	AddComment(ctx context.Context, c NewComment) (Comment, error)
	// DeleteComment removes a comment if password matches the one it was
	// created with. Returns ErrWrongPassword or ErrNotFound otherwise.
	DeleteComment(ctx context.Context, id, password string) error

	// GetLikes returns the stored counter, 0 for unknown tools.
	GetLikes(ctx context.Context, toolID string) (int, error)
	// SetLikes upserts the counter. Last write wins.
	SetLikes(ctx context.Context, toolID string, count int) error

	Close() error
}

// NormalizeNickname trims the nickname and applies the fallback label.
func NormalizeNickname(nickname string) string {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return DefaultNickname
	}
	return nickname
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*RemoteStore)(nil)
)
