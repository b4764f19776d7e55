package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperhub/config"
)

// storeTimeout bounds comment and like round-trips from the UI.
const storeTimeout = 15 * time.Second

// SendTurn starts a turn for the current input and returns the command that
// delivers its first stream message. Each StreamChunkMsg chains to the next
// through Next; the stream always ends with one StreamDoneMsg.
//
// The session's Begin errors (streaming, attaching, empty input) are
// returned as-is and nothing is started.
func (m *Model) SendTurn() (tea.Cmd, error) {
	turn, ctx, err := m.Session.Begin(context.Background())
	if err != nil {
		return nil, err
	}

	ch := make(chan tea.Msg, 64)
	go func() {
		defer close(ch)
		err := m.Provider.Chat(ctx, turn.Request, func(chunk string) error {
			select {
			case ch <- StreamChunkMsg{TurnID: turn.ID, Chunk: chunk, stream: ch}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Model] Turn %s: provider returned %v", turn.ID, err)
		}
		ch <- StreamDoneMsg{TurnID: turn.ID, Err: err}
	}()

	return WaitForStream(ch), nil
}

// WaitForStream reads the next message from a turn's stream.
func WaitForStream(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// ApplyStream folds a stream message into the session and returns the
// command for the next one, or nil once the turn is over.
func (m *Model) ApplyStream(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case StreamChunkMsg:
		m.Session.ApplyChunk(msg.TurnID, msg.Chunk)
		return msg.Next()
	case StreamDoneMsg:
		m.Session.Complete(msg.TurnID, msg.Err)
	}
	return nil
}

// WaitForProgress delivers the next model load update.
func (m *Model) WaitForProgress() tea.Cmd {
	return func() tea.Msg {
		return <-m.progress
	}
}

// WaitForPrefsSaved delivers the time of the next successful prefs save.
func (m *Model) WaitForPrefsSaved() tea.Cmd {
	return func() tea.Msg {
		return <-m.saved
	}
}

// WaitForCount delivers the next counter update from the bus.
func (m *Model) WaitForCount() tea.Cmd {
	return func() tea.Msg {
		return CountChangedMsg{<-m.counts}
	}
}

// AttachFile extracts file in the background and installs it as the
// session's attachment.
func (m *Model) AttachFile(file FileInput) tea.Cmd {
	return func() tea.Msg {
		err := m.Session.Attach(context.Background(), m.Extractor, file)
		return AttachDoneMsg{FileName: file.Name, Err: err}
	}
}

func (m *Model) LoadComments(toolID string) tea.Cmd {
	b := m.Board(toolID)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return CommentsLoadedMsg{ToolID: toolID, Err: b.Load(ctx)}
	}
}

// SubmitComment posts the board's current draft. The draft must already be
// set; validation failures come back as ErrInvalidComment without a
// network call.
func (m *Model) SubmitComment(toolID string) tea.Cmd {
	b := m.Board(toolID)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return CommentSubmittedMsg{ToolID: toolID, Err: b.Submit(ctx)}
	}
}

func (m *Model) DeleteComment(toolID, commentID, password string) tea.Cmd {
	b := m.Board(toolID)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return CommentDeletedMsg{ToolID: toolID, CommentID: commentID, Err: b.Delete(ctx, commentID, password)}
	}
}

// Like records a like for toolID; seed is the catalog's starting count.
func (m *Model) Like(toolID string, seed int) tea.Cmd {
	likes := m.Likes
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := likes.Like(ctx, toolID, seed)
		return LikedMsg{ToolID: toolID, Count: n, Err: err}
	}
}

// FetchCounts loads both counters for a tool. Errors from the two reads are
// reported together; whatever was read is still returned.
func (m *Model) FetchCounts(toolID string, seed int) tea.Cmd {
	store, likes := m.Store, m.Likes
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		msg := CountsMsg{ToolID: toolID}
		n, err := store.CountComments(ctx, toolID)
		msg.Comments = n
		msg.Err = err

		l, err := likes.Count(ctx, toolID, seed)
		msg.Likes = l
		if msg.Err == nil {
			msg.Err = err
		}
		return msg
	}
}

// ClockTick drives the desk clock and the focus timer.
func ClockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockTickMsg(t)
	})
}

func FlashTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return FlashTickMsg{}
	})
}
