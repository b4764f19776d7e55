package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ConvertAuthors formats an author list for LaTeX: commas become " and "
// and spaces become "~". Everything from the first " and " onward is kept
// as typed, so a list that already ends in "and Name" is not mangled.
func ConvertAuthors(input string) string {
	head, tail := input, ""
	if i := strings.Index(strings.ToLower(input), " and "); i >= 0 {
		head, tail = input[:i], input[i:]
	}
	head = strings.ReplaceAll(head, " ", "~")
	head = strings.ReplaceAll(head, ",", " and ")
	return head + tail
}

// Improvement is a formatted calculator result.
type Improvement struct {
	Label    string
	Value    string
	Positive bool
}

// CalculateImprovement compares value to base. In percent-point mode the
// difference is reported in %p; otherwise as a rate relative to base, which
// is N/A when base is zero.
func CalculateImprovement(base, value float64, percentPoints bool) Improvement {
	diff := value - base
	if percentPoints {
		label := "Improvement (%p)"
		if diff < 0 {
			label = "Decline (%p)"
		}
		return Improvement{Label: label, Value: signed(diff) + "%p", Positive: diff >= 0}
	}

	if base == 0 {
		return Improvement{Label: "Improvement Rate", Value: "N/A", Positive: true}
	}
	rate := diff / base * 100
	label := "Improvement Rate"
	if rate < 0 {
		label = "Decline Rate"
	}
	return Improvement{Label: label, Value: signed(rate) + "%", Positive: rate >= 0}
}

// ParseImprovement is CalculateImprovement over raw input. ok is false until
// both fields hold numbers.
func ParseImprovement(base, value string, percentPoints bool) (imp Improvement, ok bool) {
	b, err := strconv.ParseFloat(strings.TrimSpace(base), 64)
	if err != nil {
		return Improvement{}, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return Improvement{}, false
	}
	return CalculateImprovement(b, v, percentPoints), true
}

func signed(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.2f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
