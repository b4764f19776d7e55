package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"paperhub/catalog"
	appmodel "paperhub/model"
	"paperhub/provider/testutil"
	"paperhub/storage"
)

type textExtractor struct{}

func (textExtractor) Extract(ctx context.Context, kind appmodel.MimeKind, data []byte) (string, error) {
	return string(data), nil
}

func newTestView(t *testing.T, prefs *storage.Prefs) AppView {
	t.Helper()
	m := appmodel.NewModel(nil, testutil.NewMockProvider("test-model"), nil, prefs, textExtractor{}, "test")
	t.Cleanup(m.Close)
	return NewAppView(m)
}

func runeKey(s string, alt bool) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: alt}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, ""},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 30, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name           string
		n, sel, rows   int
		wantStart, end int
	}{
		{"fits", 5, 3, 10, 0, 5},
		{"no room", 5, 3, 0, 0, 5},
		{"top", 20, 1, 6, 0, 6},
		{"middle", 20, 10, 6, 7, 13},
		{"bottom", 20, 19, 6, 14, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleWindow(tt.n, tt.sel, tt.rows)
			if start != tt.wantStart || end != tt.end {
				t.Errorf("visibleWindow(%d, %d, %d) = %d, %d, want %d, %d",
					tt.n, tt.sel, tt.rows, start, end, tt.wantStart, tt.end)
			}
		})
	}
}

func TestSwitchViewWraps(t *testing.T) {
	a := newTestView(t, nil)

	want := []viewMode{viewCatalog, viewSidebar, viewChat}
	for _, mode := range want {
		next, _ := a.handleKey(tea.KeyMsg{Type: tea.KeyTab})
		a = next
		if a.mode != mode {
			t.Fatalf("mode = %v, want %v", a.mode, mode)
		}
	}

	a.mode = viewDetail
	a = a.switchView(-1)
	if a.mode != viewChat {
		t.Errorf("shift+tab from detail = %v, want chat", a.mode)
	}
}

func TestNewConversationAsksFirst(t *testing.T) {
	a := newTestView(t, nil)
	err := a.dataModel.Session.Attach(context.Background(), textExtractor{}, appmodel.FileInput{
		Name:     "notes.txt",
		MimeType: "text/plain",
		Data:     []byte("attention is all you need"),
	})
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	a, _ = a.handleKey(runeKey("n", true))
	if !a.confirmNewChat {
		t.Fatal("expected confirmation modal")
	}
	if _, ok := a.dataModel.Session.Attachment(); !ok {
		t.Fatal("attachment discarded before confirming")
	}

	a, _ = a.handleKey(runeKey("y", false))
	if a.confirmNewChat {
		t.Error("confirmation modal still open")
	}
	if _, ok := a.dataModel.Session.Attachment(); ok {
		t.Error("attachment kept after confirming")
	}
	if n := len(a.dataModel.Session.Messages()); n != 0 {
		t.Errorf("messages = %d, want 0", n)
	}
}

func TestNewConversationDeclined(t *testing.T) {
	a := newTestView(t, nil)
	a.dataModel.Session.Attach(context.Background(), textExtractor{}, appmodel.FileInput{
		Name:     "notes.txt",
		MimeType: "text/plain",
		Data:     []byte("x"),
	})

	a, _ = a.handleKey(runeKey("n", true))
	a, _ = a.handleKey(runeKey("n", false))
	if a.confirmNewChat {
		t.Error("confirmation modal still open")
	}
	if _, ok := a.dataModel.Session.Attachment(); !ok {
		t.Error("attachment discarded after declining")
	}
}

func TestFavoritesCategory(t *testing.T) {
	prefs, err := storage.LoadPrefs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := newTestView(t, prefs)
	a.mode = viewCatalog

	a.category = catalog.CategoryFavorites
	a.refreshToolList()
	if len(a.toolList) != 0 {
		t.Fatalf("favorites = %d tools, want 0", len(a.toolList))
	}

	if _, err := prefs.ToggleFavorite("3"); err != nil {
		t.Fatal(err)
	}
	a.refreshToolList()
	if len(a.toolList) != 1 || a.toolList[0].ID != "3" {
		t.Errorf("favorites = %+v, want only tool 3", a.toolList)
	}
}

func TestFocusTimerFlushes(t *testing.T) {
	prefs, err := storage.LoadPrefs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := newTestView(t, prefs)
	a.mode = viewSidebar

	a, _ = a.handleKey(runeKey(" ", false))
	if !a.focusOn {
		t.Fatal("focus timer not started")
	}

	now := time.Now()
	for i := range 16 {
		next, _ := a.Update(clockTickMsg(now.Add(time.Duration(i) * time.Second)))
		a = next.(AppView)
	}
	if got := prefs.FocusTime(); got != focusFlushInterval {
		t.Errorf("saved focus = %v, want %v", got, focusFlushInterval)
	}
	if got := a.focusTotal(); got != 16*time.Second {
		t.Errorf("focus total = %v, want 16s", got)
	}

	a, _ = a.handleKey(runeKey(" ", false))
	if got := prefs.FocusTime(); got != 16*time.Second {
		t.Errorf("saved focus after pause = %v, want 16s", got)
	}
}

func TestGoalInput(t *testing.T) {
	prefs, err := storage.LoadPrefs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := newTestView(t, prefs)
	a.mode = viewSidebar

	a, _ = a.handleKey(runeKey("g", false))
	if !a.goalMode {
		t.Fatal("goal input not opened")
	}
	a.goalInput.SetValue("Camera Ready | 2026-09-01")
	a, _ = a.handleKey(tea.KeyMsg{Type: tea.KeyEnter})

	if a.goalMode {
		t.Error("goal input still open")
	}
	if g := prefs.Goal(); g.Title != "Camera Ready" || g.Date != "2026-09-01" {
		t.Errorf("goal = %+v", g)
	}
}

func TestPrefsSaveShownOnDesk(t *testing.T) {
	prefs, err := storage.LoadPrefs(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := newTestView(t, prefs)

	if err := prefs.SetMemo("reviewer 2"); err != nil {
		t.Fatal(err)
	}
	msg := a.dataModel.WaitForPrefsSaved()()
	saved, ok := msg.(prefsSavedMsg)
	if !ok || saved.At.IsZero() {
		t.Fatalf("WaitForPrefsSaved() = %#v", msg)
	}

	next, cmd := a.Update(saved)
	a = next.(AppView)
	if !a.savedAt.Equal(saved.At) {
		t.Errorf("savedAt = %v, want %v", a.savedAt, saved.At)
	}
	if cmd == nil {
		t.Error("save listener not re-armed")
	}
}
