package model

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperhub/storage"
)

// drive runs a turn's stream through ApplyStream and returns the messages
// in delivery order.
func drive(t *testing.T, m *Model, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var got []tea.Msg
	deadline := time.After(2 * time.Second)
	for cmd != nil {
		done := make(chan tea.Msg, 1)
		go func(c tea.Cmd) { done <- c() }(cmd)
		select {
		case msg := <-done:
			got = append(got, msg)
			cmd = m.ApplyStream(msg)
		case <-deadline:
			t.Fatal("stream did not finish")
		}
	}
	return got
}

func TestModelSendTurn(t *testing.T) {
	p := &scriptedProvider{fragments: []string{"X ", "is ", "a concept."}}
	m := NewModel(nil, p, newMemStore(), nil, nil, "test")
	m.Session.SetInput("What is X?")

	cmd, err := m.SendTurn()
	if err != nil {
		t.Fatalf("SendTurn() error = %v", err)
	}
	msgs := drive(t, m, cmd)

	if len(msgs) != 4 {
		t.Fatalf("got %d stream messages, want 4", len(msgs))
	}
	if _, ok := msgs[3].(StreamDoneMsg); !ok {
		t.Errorf("last message = %T, want StreamDoneMsg", msgs[3])
	}
	if m.Session.Streaming() {
		t.Error("session still streaming")
	}
	if got := lastAssistant(t, m.Session).Content; got != "X is a concept." {
		t.Errorf("assistant content = %q", got)
	}
}

func TestModelSendTurnWhileStreaming(t *testing.T) {
	m := NewModel(nil, &scriptedProvider{}, newMemStore(), nil, nil, "test")
	m.Session.SetInput("first")
	if _, _, err := m.Session.Begin(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.Session.SetInput("second")

	if _, err := m.SendTurn(); !errors.Is(err, ErrTurnInProgress) {
		t.Errorf("SendTurn() error = %v, want ErrTurnInProgress", err)
	}
}

func TestModelSendTurnError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("unreachable")}
	m := NewModel(nil, p, newMemStore(), nil, nil, "test")
	m.Session.SetInput("hi")

	cmd, err := m.SendTurn()
	if err != nil {
		t.Fatal(err)
	}
	drive(t, m, cmd)

	if m.Session.Err() == nil {
		t.Error("session error not surfaced")
	}
	for _, msg := range m.Session.Messages() {
		if msg.Role == RoleAssistant {
			t.Errorf("empty placeholder kept: %+v", msg)
		}
	}
}

func TestModelCountForwarding(t *testing.T) {
	store := newMemStore()
	m := NewModel(nil, &scriptedProvider{}, store, nil, nil, "test")
	defer m.Close()

	m.Board("3")
	msg := m.Like("3", 10)()
	liked, ok := msg.(LikedMsg)
	if !ok || liked.Err != nil || liked.Count != 11 {
		t.Fatalf("Like() = %+v", msg)
	}

	got := m.WaitForCount()().(CountChangedMsg)
	if got.ToolID != "3" || got.Kind != CountLikes || got.Count != 11 {
		t.Errorf("count event = %+v", got)
	}

	// The in-memory ledger blocks a second like.
	if msg := m.Like("3", 10)().(LikedMsg); msg.Count != 11 || store.setCalls != 1 {
		t.Errorf("second like = %+v, setCalls = %d", msg, store.setCalls)
	}
}

func TestModelReportProgress(t *testing.T) {
	m := NewModel(nil, &scriptedProvider{}, newMemStore(), nil, nil, "test")
	m.ReportProgress(42, "fetching params")

	got := m.WaitForProgress()().(LoadProgressMsg)
	if got.Percent != 42 || got.Text != "fetching params" {
		t.Errorf("progress = %+v", got)
	}
}

func TestModelCoalescesPrefsSaves(t *testing.T) {
	prefs, err := storage.LoadPrefs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m := NewModel(nil, &scriptedProvider{}, newMemStore(), prefs, nil, "test")

	for _, memo := range []string{"a", "b", "c"} {
		if err := prefs.SetMemo(memo); err != nil {
			t.Fatal(err)
		}
	}

	first := m.WaitForPrefsSaved()().(PrefsSavedMsg)
	if first.At.IsZero() {
		t.Fatal("no save reported")
	}
	select {
	case extra := <-m.saved:
		t.Errorf("saves not coalesced, extra %+v", extra)
	default:
	}
}
