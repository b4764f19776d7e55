package model

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StreamChunkMsg carries one fragment of the turn TurnID.
type StreamChunkMsg struct {
	TurnID string
	Chunk  string

	stream <-chan tea.Msg
}

// Next waits for the message after this one on the same stream.
func (m StreamChunkMsg) Next() tea.Cmd {
	return WaitForStream(m.stream)
}

// StreamDoneMsg ends a turn. Err is nil on a clean finish.
type StreamDoneMsg struct {
	TurnID string
	Err    error
}

// LoadProgressMsg reports model loading for the worker backend.
type LoadProgressMsg struct {
	Percent float64
	Text    string
}

type AttachDoneMsg struct {
	FileName string
	Err      error
}

type CommentsLoadedMsg struct {
	ToolID string
	Err    error
}

type CommentSubmittedMsg struct {
	ToolID string
	Err    error
}

type CommentDeletedMsg struct {
	ToolID    string
	CommentID string
	Err       error
}

type LikedMsg struct {
	ToolID string
	Count  int
	Err    error
}

// CountsMsg is the initial fetch of a tool's counters.
type CountsMsg struct {
	ToolID   string
	Comments int
	Likes    int
	Err      error
}

// PrefsSavedMsg reports that local state was written to disk.
type PrefsSavedMsg struct {
	At time.Time
}

// CountChangedMsg relays a bus event onto the event loop.
type CountChangedMsg struct {
	CountEvent
}

type ClockTickMsg time.Time

type FlashTickMsg struct{}
