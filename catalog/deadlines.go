package catalog

import (
	"fmt"
	"math"
	"time"
)

// AoE is Anywhere on Earth (UTC-12), the zone conference deadlines use.
var AoE = time.FixedZone("AoE", -12*60*60)

type Conference struct {
	Name     string
	Full     string
	Deadline time.Time // 23:59:59 AoE on the deadline day
	Start    time.Time
	End      time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, AoE)
}

func deadline(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, AoE)
}

var conferences = []Conference{
	{Name: "ICLR 2026", Full: "Learning Representations", Deadline: deadline(2026, time.January, 20), Start: day(2026, time.May, 4), End: day(2026, time.May, 8)},
	{Name: "AAAI 2026", Full: "Artificial Intelligence", Deadline: deadline(2025, time.August, 15), Start: day(2026, time.February, 5), End: day(2026, time.February, 11)},
	{Name: "CVPR 2026", Full: "Computer Vision", Deadline: deadline(2025, time.November, 10), Start: day(2026, time.June, 14), End: day(2026, time.June, 19)},
	{Name: "ICML 2026", Full: "Machine Learning", Deadline: deadline(2026, time.January, 28), Start: day(2026, time.July, 12), End: day(2026, time.July, 18)},
	{Name: "KCC 2026", Full: "Korea Computer Congress", Deadline: deadline(2026, time.April, 20), Start: day(2026, time.June, 24), End: day(2026, time.June, 26)},
}

func Conferences() []Conference {
	return append([]Conference(nil), conferences...)
}

// DaysUntil counts calendar days in AoE from now to the deadline day. Zero
// means the deadline is today; negative means it has passed.
func (c Conference) DaysUntil(now time.Time) int {
	n := now.In(AoE)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, AoE)
	d := c.Deadline.In(AoE)
	due := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, AoE)
	return int(math.Round(due.Sub(today).Hours() / 24))
}

// Status renders DaysUntil as "D-n", "D-Day" or "Closed".
func (c Conference) Status(now time.Time) string {
	switch n := c.DaysUntil(now); {
	case n > 0:
		return fmt.Sprintf("D-%d", n)
	case n == 0:
		return "D-Day"
	default:
		return "Closed"
	}
}

// Countdown is the time left to a goal, split for display.
type Countdown struct {
	Days, Hours, Minutes, Seconds int
}

func (c Countdown) String() string {
	return fmt.Sprintf("%02dd %02dh %02dm %02ds", c.Days, c.Hours, c.Minutes, c.Seconds)
}

// GoalCountdown counts down to 23:59:59 on date (YYYY-MM-DD) in now's
// location. A past date yields all zeros.
func GoalCountdown(date string, now time.Time) (Countdown, error) {
	d, err := time.ParseInLocation(time.DateOnly, date, now.Location())
	if err != nil {
		return Countdown{}, fmt.Errorf("invalid goal date %q: %w", date, err)
	}
	target := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())

	left := target.Sub(now)
	if left < 0 {
		left = 0
	}
	secs := int(left / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   secs / 3600 % 24,
		Minutes: secs / 60 % 60,
		Seconds: secs % 60,
	}, nil
}

// Garden is the focus-timer reward for accumulated focus time.
type Garden struct {
	Stage    string
	Icon     string
	Progress float64 // percent toward the next stage
	Cats     int     // one per focused hour, up to five
}

// GardenFor maps accumulated focus time to a growth stage.
func GardenFor(focus time.Duration) Garden {
	sec := focus.Seconds()
	g := Garden{Cats: min(5, int(focus/time.Hour))}
	switch {
	case sec < 300:
		g.Stage, g.Icon, g.Progress = "Seedling", "🌱", sec/300*100
	case sec < 1800:
		g.Stage, g.Icon, g.Progress = "Sprout", "🌿", (sec-300)/1500*100
	case sec < 3600:
		g.Stage, g.Icon, g.Progress = "Small Tree", "🌳", (sec-1800)/1800*100
	default:
		g.Stage, g.Icon, g.Progress = "Great Tree", "🌲", 100
	}
	return g
}

// FormatClock renders a duration as HH:MM:SS.
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// Clock returns now in AoE, or in the local zone when local is true.
func Clock(now time.Time, local bool) time.Time {
	if local {
		return now.Local()
	}
	return now.In(AoE)
}
