package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const prefsFile = "prefs.json"

// Todo is an entry of the sidebar to-do list.
type Todo struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Goal is the countdown target.
type Goal struct {
	Title string `json:"title"`
	Date  string `json:"date"` // YYYY-MM-DD
}

// DefaultGoal is used until the user sets one.
var DefaultGoal = Goal{Title: "Paper Submission", Date: "2026-06-30"}

type prefsData struct {
	Favorites    []string `json:"favorites"`
	Liked        []string `json:"liked"`
	Todos        []Todo   `json:"todos"`
	Memo         string   `json:"memo"`
	Goal         Goal     `json:"goal"`
	FocusSeconds int64    `json:"focus_seconds"`
}

// Prefs is the client's persisted local state. It is loaded once at startup
// and written back after every change; OnChange hooks run after each
// successful save.
type Prefs struct {
	mu    sync.Mutex
	path  string
	data  prefsData
	hooks []func()
}

// LoadPrefs reads <dataDir>/prefs.json. A missing file yields defaults; a
// corrupt one is an error.
func LoadPrefs(dataDir string) (*Prefs, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	p := &Prefs{
		path: filepath.Join(dataDir, prefsFile),
		data: prefsData{Goal: DefaultGoal},
	}

	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prefs file: %w", err)
	}

	if err := json.Unmarshal(data, &p.data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prefs: %w", err)
	}
	if p.data.Goal.Title == "" && p.data.Goal.Date == "" {
		p.data.Goal = DefaultGoal
	}

	return p, nil
}

// clone returns a copy that shares no slices with d.
func (d prefsData) clone() prefsData {
	d.Favorites = slices.Clone(d.Favorites)
	d.Liked = slices.Clone(d.Liked)
	d.Todos = slices.Clone(d.Todos)
	return d
}

// OnChange registers a hook called, outside the lock, after every
// successful save.
func (p *Prefs) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hooks = append(p.hooks, fn)
}

// update applies fn to a copy of the data and keeps it only once the copy
// is written to disk, so a failed save leaves memory unchanged and runs no
// hooks.
func (p *Prefs) update(fn func(d *prefsData)) error {
	p.mu.Lock()
	next := p.data.clone()
	fn(&next)
	if err := p.write(next); err != nil {
		p.mu.Unlock()
		return err
	}
	p.data = next
	hooks := slices.Clone(p.hooks)
	p.mu.Unlock()

	for _, h := range hooks {
		h()
	}
	return nil
}

func (p *Prefs) write(d prefsData) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal prefs: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write prefs file: %w", err)
	}
	return nil
}

func (p *Prefs) Favorites() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.data.Favorites)
}

func (p *Prefs) IsFavorite(toolID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Contains(p.data.Favorites, toolID)
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (p *Prefs) ToggleFavorite(toolID string) (bool, error) {
	var fav bool
	err := p.update(func(d *prefsData) {
		if i := slices.Index(d.Favorites, toolID); i >= 0 {
			d.Favorites = slices.Delete(d.Favorites, i, i+1)
			return
		}
		d.Favorites = append(d.Favorites, toolID)
		fav = true
	})
	if err != nil {
		return p.IsFavorite(toolID), err
	}
	return fav, nil
}

func (p *Prefs) HasLiked(toolID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Contains(p.data.Liked, toolID)
}

// SetLiked records or clears the local already-liked flag.
func (p *Prefs) SetLiked(toolID string, liked bool) error {
	return p.update(func(d *prefsData) {
		i := slices.Index(d.Liked, toolID)
		switch {
		case liked && i < 0:
			d.Liked = append(d.Liked, toolID)
		case !liked && i >= 0:
			d.Liked = slices.Delete(d.Liked, i, i+1)
		}
	})
}

func (p *Prefs) Todos() []Todo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.data.Todos)
}

func (p *Prefs) AddTodo(text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, fmt.Errorf("todo text is empty")
	}
	todo := Todo{ID: uuid.New().String(), Text: text}
	err := p.update(func(d *prefsData) {
		d.Todos = append(d.Todos, todo)
	})
	return todo, err
}

func (p *Prefs) ToggleTodo(id string) error {
	return p.update(func(d *prefsData) {
		for i := range d.Todos {
			if d.Todos[i].ID == id {
				d.Todos[i].Done = !d.Todos[i].Done
			}
		}
	})
}

func (p *Prefs) RemoveTodo(id string) error {
	return p.update(func(d *prefsData) {
		d.Todos = slices.DeleteFunc(d.Todos, func(t Todo) bool { return t.ID == id })
	})
}

func (p *Prefs) Memo() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Memo
}

func (p *Prefs) SetMemo(memo string) error {
	return p.update(func(d *prefsData) { d.Memo = memo })
}

func (p *Prefs) Goal() Goal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Goal
}

// SetGoal validates date as YYYY-MM-DD.
func (p *Prefs) SetGoal(title, date string) error {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("invalid goal date %q: %w", date, err)
	}
	return p.update(func(d *prefsData) {
		d.Goal = Goal{Title: strings.TrimSpace(title), Date: date}
	})
}

func (p *Prefs) FocusTime() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(p.data.FocusSeconds) * time.Second
}

// AddFocus accumulates completed focus time.
func (p *Prefs) AddFocus(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return p.update(func(data *prefsData) {
		data.FocusSeconds += int64(d / time.Second)
	})
}

func (p *Prefs) ResetFocus() error {
	return p.update(func(d *prefsData) { d.FocusSeconds = 0 })
}
