package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"paperhub/storage"
)

// memStore is an in-memory storage.Store with injectable failures.
type memStore struct {
	mu        sync.Mutex
	comments  []storage.Comment
	passwords map[string]string
	likes     map[string]int
	nextID    int

	addErr    error
	deleteErr error
	setErr    error
	setCalls  int
}

func newMemStore() *memStore {
	return &memStore{passwords: map[string]string{}, likes: map[string]int{}}
}

func (m *memStore) ListComments(ctx context.Context, toolID string) ([]storage.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []storage.Comment
	for i := len(m.comments) - 1; i >= 0; i-- {
		if m.comments[i].ToolID == toolID {
			out = append(out, m.comments[i])
		}
	}
	return out, nil
}

func (m *memStore) CountComments(ctx context.Context, toolID string) (int, error) {
	c, _ := m.ListComments(ctx, toolID)
	return len(c), nil
}

func (m *memStore) AddComment(ctx context.Context, in storage.NewComment) (storage.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return storage.Comment{}, m.addErr
	}
	m.nextID++
	c := storage.Comment{ID: "srv-" + string(rune('0'+m.nextID)), ToolID: in.ToolID, Nickname: storage.NormalizeNickname(in.Nickname), Body: in.Body}
	m.comments = append(m.comments, c)
	m.passwords[c.ID] = in.Password
	return c, nil
}

func (m *memStore) DeleteComment(ctx context.Context, id, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	pw, ok := m.passwords[id]
	if !ok {
		return storage.ErrNotFound
	}
	if pw != password {
		return storage.ErrWrongPassword
	}
	for i, c := range m.comments {
		if c.ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			break
		}
	}
	delete(m.passwords, id)
	return nil
}

func (m *memStore) GetLikes(ctx context.Context, toolID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.likes[toolID], nil
}

func (m *memStore) SetLikes(ctx context.Context, toolID string, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.likes[toolID] = count
	return nil
}

func (m *memStore) Close() error { return nil }

type memLedger struct {
	liked map[string]bool
}

func (l *memLedger) HasLiked(id string) bool { return l.liked[id] }
func (l *memLedger) SetLiked(id string, v bool) error {
	l.liked[id] = v
	return nil
}

func TestCommentBoardSubmit(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	bus := NewBus()

	var events []CountEvent
	bus.Subscribe("overleaf", func(ev CountEvent) { events = append(events, ev) })

	board := NewCommentBoard("overleaf", store, bus)
	board.SetDraft(CommentDraft{Body: "great tool", Password: "pw"})

	if err := board.Submit(ctx); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	comments := board.Comments()
	if len(comments) != 1 || comments[0].ID != "srv-1" || comments[0].Nickname != storage.DefaultNickname {
		t.Errorf("comments = %+v", comments)
	}
	if board.CurrentDraft() != (CommentDraft{}) {
		t.Errorf("draft not cleared: %+v", board.CurrentDraft())
	}
	if len(events) != 1 || events[0] != (CountEvent{ToolID: "overleaf", Kind: CountComments, Count: 1}) {
		t.Errorf("events = %+v", events)
	}
}

func TestCommentBoardSubmitValidation(t *testing.T) {
	store := newMemStore()
	board := NewCommentBoard("overleaf", store, nil)

	for _, d := range []CommentDraft{{Body: "x"}, {Password: "pw"}, {Body: "  ", Password: "pw"}} {
		board.SetDraft(d)
		if err := board.Submit(context.Background()); !errors.Is(err, ErrInvalidComment) {
			t.Errorf("Submit(%+v) error = %v, want ErrInvalidComment", d, err)
		}
		if board.CurrentDraft() != d {
			t.Errorf("draft changed on rejected submit")
		}
	}
	if len(store.comments) != 0 {
		t.Error("rejected submit reached the store")
	}
}

func TestCommentBoardSubmitRollback(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	board := NewCommentBoard("overleaf", store, nil)

	board.SetDraft(CommentDraft{Body: "first", Password: "pw"})
	if err := board.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	before := board.Comments()

	store.addErr = errors.New("network down")
	draft := CommentDraft{Nickname: "kim", Body: "second", Password: "pw2"}
	board.SetDraft(draft)

	if err := board.Submit(ctx); err == nil {
		t.Fatal("expected error")
	}
	if got := board.Comments(); !reflect.DeepEqual(got, before) {
		t.Errorf("comments after rollback = %+v, want %+v", got, before)
	}
	if board.CurrentDraft() != draft {
		t.Errorf("draft = %+v, want %+v", board.CurrentDraft(), draft)
	}
}

func TestCommentBoardDelete(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memStore, *CommentBoard) {
		t.Helper()
		store := newMemStore()
		board := NewCommentBoard("overleaf", store, nil)
		for _, body := range []string{"a", "b", "c"} {
			board.SetDraft(CommentDraft{Body: body, Password: "pw-" + body})
			if err := board.Submit(ctx); err != nil {
				t.Fatal(err)
			}
		}
		return store, board
	}

	t.Run("wrong password restores comment", func(t *testing.T) {
		_, board := setup(t)
		before := board.Comments()
		target := before[1]

		err := board.Delete(ctx, target.ID, "guess")
		if !errors.Is(err, storage.ErrWrongPassword) {
			t.Fatalf("Delete() error = %v, want ErrWrongPassword", err)
		}
		if got := board.Comments(); !reflect.DeepEqual(got, before) {
			t.Errorf("comments = %+v, want %+v", got, before)
		}
	})

	t.Run("server error distinct from wrong password", func(t *testing.T) {
		store, board := setup(t)
		store.deleteErr = errors.New("503 service unavailable")
		before := board.Comments()

		err := board.Delete(ctx, before[0].ID, "pw-c")
		if err == nil || errors.Is(err, storage.ErrWrongPassword) {
			t.Fatalf("Delete() error = %v", err)
		}
		if got := board.Comments(); !reflect.DeepEqual(got, before) {
			t.Errorf("comments not restored")
		}
	})

	t.Run("correct password", func(t *testing.T) {
		_, board := setup(t)
		bus := NewBus()
		board.bus = bus
		var last CountEvent
		bus.Subscribe("overleaf", func(ev CountEvent) { last = ev })

		target := board.Comments()[2]
		if err := board.Delete(ctx, target.ID, "pw-a"); err != nil {
			t.Fatal(err)
		}
		if len(board.Comments()) != 2 || last.Count != 2 {
			t.Errorf("comments = %d, last event = %+v", len(board.Comments()), last)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		_, board := setup(t)
		if err := board.Delete(ctx, "nope", "pw"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Delete() error = %v", err)
		}
	})
}

// gate pauses a store call until the test releases it.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait() {
	if g == nil {
		return
	}
	g.entered <- struct{}{}
	<-g.release
}

// gatedStore holds selected calls of memStore. afterAdd blocks once the
// comment is stored but before AddComment returns; list gates only the
// next ListComments call.
type gatedStore struct {
	*memStore
	beforeAdd    *gate
	afterAdd     *gate
	beforeDelete *gate
	list         *gate
}

func (g *gatedStore) ListComments(ctx context.Context, toolID string) ([]storage.Comment, error) {
	out, err := g.memStore.ListComments(ctx, toolID)
	lg := g.list
	g.list = nil
	lg.wait()
	return out, err
}

func (g *gatedStore) AddComment(ctx context.Context, in storage.NewComment) (storage.Comment, error) {
	g.beforeAdd.wait()
	c, err := g.memStore.AddComment(ctx, in)
	g.afterAdd.wait()
	return c, err
}

func (g *gatedStore) DeleteComment(ctx context.Context, id, password string) error {
	g.beforeDelete.wait()
	return g.memStore.DeleteComment(ctx, id, password)
}

func TestCommentBoardLoadDuringSubmit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		gate func(s *gatedStore, g *gate)
		// visible entries while the add is held
		during int
	}{
		{"before the insert", func(s *gatedStore, g *gate) { s.beforeAdd = g }, 1},
		{"after the insert", func(s *gatedStore, g *gate) { s.afterAdd = g }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &gatedStore{memStore: newMemStore()}
			g := newGate()
			tt.gate(store, g)

			bus := NewBus()
			var last CountEvent
			bus.Subscribe("overleaf", func(ev CountEvent) { last = ev })
			board := NewCommentBoard("overleaf", store, bus)
			board.SetDraft(CommentDraft{Body: "works offline", Password: "pw"})

			errc := make(chan error, 1)
			go func() { errc <- board.Submit(ctx) }()
			<-g.entered

			if err := board.Load(ctx); err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			got := board.Comments()
			if len(got) != tt.during || !strings.HasPrefix(got[0].ID, "temp-") {
				t.Errorf("comments while posting = %+v, want %d with the optimistic one first", got, tt.during)
			}

			close(g.release)
			if err := <-errc; err != nil {
				t.Fatalf("Submit() error: %v", err)
			}
			got = board.Comments()
			if len(got) != 1 || got[0].ID != "srv-1" {
				t.Errorf("comments = %+v, want only srv-1", got)
			}
			if last.Count != 1 {
				t.Errorf("last count = %d, want 1", last.Count)
			}
		})
	}
}

func TestCommentBoardLoadDuringDelete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		want     int
	}{
		{"delete succeeds", "pw", 0},
		{"delete rejected", "guess", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &gatedStore{memStore: newMemStore()}
			board := NewCommentBoard("overleaf", store, nil)
			board.SetDraft(CommentDraft{Body: "typo", Password: "pw"})
			if err := board.Submit(ctx); err != nil {
				t.Fatal(err)
			}

			g := newGate()
			store.beforeDelete = g
			errc := make(chan error, 1)
			go func() { errc <- board.Delete(ctx, "srv-1", tt.password) }()
			<-g.entered

			if err := board.Load(ctx); err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got := board.Comments(); len(got) != 0 {
				t.Errorf("comment being deleted reappeared: %+v", got)
			}

			close(g.release)
			<-errc
			if got := board.Comments(); len(got) != tt.want {
				t.Errorf("comments = %+v, want %d", got, tt.want)
			}
		})
	}
}

func TestCommentBoardStaleLoadRefetches(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{memStore: newMemStore()}
	board := NewCommentBoard("overleaf", store, nil)

	g := newGate()
	store.list = g
	errc := make(chan error, 1)
	go func() { errc <- board.Load(ctx) }()
	<-g.entered // holding an empty listing

	board.SetDraft(CommentDraft{Body: "first!", Password: "pw"})
	if err := board.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	close(g.release)
	if err := <-errc; err != nil {
		t.Fatal(err)
	}

	if got := board.Comments(); len(got) != 1 || got[0].ID != "srv-1" {
		t.Errorf("comments = %+v, want srv-1 kept", got)
	}
}

func TestLikeTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("second like is a no-op", func(t *testing.T) {
		store := newMemStore()
		store.likes["overleaf"] = 41
		bus := NewBus()
		var events []CountEvent
		bus.Subscribe("overleaf", func(ev CountEvent) { events = append(events, ev) })

		tracker := NewLikeTracker(store, bus, &memLedger{liked: map[string]bool{}})
		if n, err := tracker.Count(ctx, "overleaf", 10); err != nil || n != 41 {
			t.Fatalf("Count() = %d, %v", n, err)
		}

		n, err := tracker.Like(ctx, "overleaf", 10)
		if err != nil || n != 42 {
			t.Fatalf("Like() = %d, %v; want 42", n, err)
		}
		n, err = tracker.Like(ctx, "overleaf", 10)
		if err != nil || n != 42 {
			t.Errorf("second Like() = %d, %v", n, err)
		}
		if store.setCalls != 1 {
			t.Errorf("SetLikes called %d times, want 1", store.setCalls)
		}
		if len(events) != 1 || events[0].Count != 42 || events[0].Kind != CountLikes {
			t.Errorf("events = %+v", events)
		}
	})

	t.Run("seed used when store has none", func(t *testing.T) {
		store := newMemStore()
		tracker := NewLikeTracker(store, nil, &memLedger{liked: map[string]bool{}})
		if n, _ := tracker.Count(ctx, "zotero", 7); n != 7 {
			t.Errorf("Count() = %d, want seed 7", n)
		}
		if n, _ := tracker.Like(ctx, "zotero", 7); n != 8 || store.likes["zotero"] != 8 {
			t.Errorf("Like() = %d, stored %d", n, store.likes["zotero"])
		}
	})

	t.Run("failure rolls back flag", func(t *testing.T) {
		store := newMemStore()
		store.setErr = errors.New("timeout")
		ledger := &memLedger{liked: map[string]bool{}}
		tracker := NewLikeTracker(store, nil, ledger)

		if _, err := tracker.Like(ctx, "overleaf", 3); err == nil {
			t.Fatal("expected error")
		}
		if tracker.Liked("overleaf") {
			t.Error("liked flag not rolled back")
		}
		if n := tracker.Known("overleaf", 3); n != 3 {
			t.Errorf("Known() = %d, want 3", n)
		}
	})
}

func TestLikeUnsavedFlagNotKept(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	prefs, err := storage.LoadPrefs(dir)
	if err != nil {
		t.Fatal(err)
	}
	// prefs.json as a directory makes every save fail.
	if err := os.Mkdir(filepath.Join(dir, "prefs.json"), 0700); err != nil {
		t.Fatal(err)
	}

	store := newMemStore()
	tracker := NewLikeTracker(store, nil, prefs)

	for i := range 2 {
		if _, err := tracker.Like(ctx, "overleaf", 3); err == nil {
			t.Fatalf("Like() #%d succeeded with unwritable prefs", i+1)
		}
		if tracker.Liked("overleaf") {
			t.Fatalf("Like() #%d left the tool marked liked", i+1)
		}
	}
	if store.setCalls != 0 {
		t.Errorf("SetLikes called %d times, want 0", store.setCalls)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	var got []int
	unsub := bus.Subscribe("a", func(ev CountEvent) { got = append(got, ev.Count) })
	bus.Subscribe("b", func(ev CountEvent) { got = append(got, -ev.Count) })

	bus.Publish(CountEvent{ToolID: "a", Count: 1})
	unsub()
	bus.Publish(CountEvent{ToolID: "a", Count: 2})
	bus.Publish(CountEvent{ToolID: "b", Count: 3})

	if !reflect.DeepEqual(got, []int{1, -3}) {
		t.Errorf("got %v", got)
	}
}
