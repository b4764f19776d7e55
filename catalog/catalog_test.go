package catalog

import (
	"testing"
	"time"
)

func ids(tools []Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	favs := map[string]bool{"8": true, "3": true}
	isFav := func(id string) bool { return favs[id] }

	tests := []struct {
		name     string
		category string
		query    string
		want     []string
	}{
		{"all", CategoryAll, "", ids(tools)},
		{"favorites", CategoryFavorites, "", []string{"3", "8"}},
		{"category", "submit", "", []string{"18", "19"}},
		{"title match is case-insensitive", CategoryAll, "zOTERO", []string{"3"}},
		{"description match", "llm", "anthropic", []string{"10"}},
		{"no match", CategoryAll, "quantum chromodynamics", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(tt.category, tt.query, isFav))
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Filter() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestSearch(t *testing.T) {
	got := Search(CategoryAll, "overleaf", nil)
	if len(got) == 0 || got[0].ID != "11" {
		t.Errorf("Search(overleaf) = %v, want Overleaf first", ids(got))
	}
	if n := len(Search("calc", "", nil)); n != 1 {
		t.Errorf("empty query returned %d tools, want 1", n)
	}
}

func TestGet(t *testing.T) {
	tool, ok := Get(AuthorConverterID)
	if !ok || !tool.Internal {
		t.Errorf("Get(%s) = %+v, %v", AuthorConverterID, tool, ok)
	}
	if _, ok := Get("999"); ok {
		t.Error("Get(999) should not exist")
	}
}

func TestNextCategory(t *testing.T) {
	if got := NextCategory(CategoryAll); got != CategoryFavorites {
		t.Errorf("NextCategory(all) = %s", got)
	}
	if got := NextCategory("calc"); got != CategoryAll {
		t.Errorf("NextCategory(calc) = %s, want wrap to all", got)
	}
}

func TestConvertAuthors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Gildong Hong", "Gildong~Hong"},
		{"Gildong Hong,Kim Cheolsu", "Gildong~Hong and Kim~Cheolsu"},
		{"Gildong Hong, Kim Cheolsu and Lee Younghee", "Gildong~Hong and ~Kim~Cheolsu and Lee Younghee"},
		{"A B AND C D", "A~B AND C D"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ConvertAuthors(tt.input); got != tt.want {
				t.Errorf("ConvertAuthors(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCalculateImprovement(t *testing.T) {
	tests := []struct {
		name          string
		base, value   float64
		percentPoints bool
		want          Improvement
	}{
		{"points up", 80, 82.5, true, Improvement{"Improvement (%p)", "+2.50%p", true}},
		{"points down", 80, 79, true, Improvement{"Decline (%p)", "-1.00%p", false}},
		{"points equal", 80, 80, true, Improvement{"Improvement (%p)", "0.00%p", true}},
		{"rate up", 50, 60, false, Improvement{"Improvement Rate", "+20.00%", true}},
		{"rate down", 50, 40, false, Improvement{"Decline Rate", "-20.00%", false}},
		{"zero base", 0, 10, false, Improvement{"Improvement Rate", "N/A", true}},
		{"zero base points", 0, 10, true, Improvement{"Improvement (%p)", "+10.00%p", true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateImprovement(tt.base, tt.value, tt.percentPoints); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseImprovement(t *testing.T) {
	if _, ok := ParseImprovement("", "3", false); ok {
		t.Error("empty base should not parse")
	}
	if imp, ok := ParseImprovement(" 2 ", "3", false); !ok || imp.Value != "+50.00%" {
		t.Errorf("got %+v, %v", imp, ok)
	}
}

func TestConferenceStatus(t *testing.T) {
	c := Conference{Name: "X", Deadline: deadline(2026, time.January, 20)}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"days ahead", time.Date(2026, time.January, 10, 12, 0, 0, 0, AoE), "D-10"},
		{"day before", time.Date(2026, time.January, 19, 23, 0, 0, 0, AoE), "D-1"},
		{"after deadline", time.Date(2026, time.January, 21, 1, 0, 0, 0, AoE), "Closed"},
		// 23:59:59 AoE on the 20th is 11:59:59 UTC on the 21st.
		{"utc clock still open", time.Date(2026, time.January, 21, 11, 0, 0, 0, time.UTC), "D-Day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Status(tt.now); got != tt.want {
				t.Errorf("Status() = %s, want %s (days %d)", got, tt.want, c.DaysUntil(tt.now))
			}
		})
	}
}

func TestConferenceDDay(t *testing.T) {
	c := Conference{Deadline: deadline(2026, time.January, 20)}
	if got := c.Status(c.Deadline); got != "D-Day" {
		t.Errorf("Status() at the deadline = %s, want D-Day", got)
	}
}

func TestGoalCountdown(t *testing.T) {
	now := time.Date(2026, time.June, 28, 22, 58, 30, 0, time.UTC)
	got, err := GoalCountdown("2026-06-30", now)
	if err != nil {
		t.Fatal(err)
	}
	want := Countdown{Days: 2, Hours: 1, Minutes: 1, Seconds: 29}
	if got != want {
		t.Errorf("GoalCountdown() = %+v, want %+v", got, want)
	}

	past, _ := GoalCountdown("2020-01-01", now)
	if past != (Countdown{}) {
		t.Errorf("past goal = %+v, want zero", past)
	}

	if _, err := GoalCountdown("30/06/2026", now); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestGardenFor(t *testing.T) {
	tests := []struct {
		focus time.Duration
		stage string
		cats  int
	}{
		{0, "Seedling", 0},
		{4*time.Minute + 59*time.Second, "Seedling", 0},
		{5 * time.Minute, "Sprout", 0},
		{30 * time.Minute, "Small Tree", 0},
		{time.Hour, "Great Tree", 1},
		{9 * time.Hour, "Great Tree", 5},
	}

	for _, tt := range tests {
		t.Run(tt.focus.String(), func(t *testing.T) {
			g := GardenFor(tt.focus)
			if g.Stage != tt.stage || g.Cats != tt.cats {
				t.Errorf("GardenFor(%s) = %+v", tt.focus, g)
			}
			if g.Progress < 0 || g.Progress > 100 {
				t.Errorf("progress %f out of range", g.Progress)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(3*time.Hour + 4*time.Minute + 5*time.Second); got != "03:04:05" {
		t.Errorf("FormatClock() = %s", got)
	}
}
