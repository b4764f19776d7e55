package lineio

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, input string, maxLen int) []string {
	t.Helper()
	var got []string
	err := Each(strings.NewReader(input), maxLen, func(line []byte) (bool, error) {
		got = append(got, string(line))
		return false, nil
	})
	if err != nil {
		t.Fatalf("Each() error: %v", err)
	}
	return got
}

func TestEach(t *testing.T) {
	huge := strings.Repeat("x", 200*1024)

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   []string
	}{
		{"plain", "a\nb\n", 100, []string{"a", "b"}},
		{"blank and padded", "\n  a \r\n\n b\n", 100, []string{"a", "b"}},
		{"no trailing newline", "a\nb", 100, []string{"a", "b"}},
		{"oversized line skipped", "a\n" + huge + "\nb\n", 1024, []string{"a", "b"}},
		{"oversized last line", "a\n" + huge, 1024, []string{"a"}},
		{"short oversized line", "a\n0123456789\nb\n", 5, []string{"a", "b"}},
		{"long line within limit", huge + "\nb\n", len(huge) + 1, []string{huge, "b"}},
		{"empty", "", 100, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collect(t, tt.input, tt.maxLen); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %d lines %.40q, want %d lines", len(got), got, len(tt.want))
			}
		})
	}
}

func TestEachStop(t *testing.T) {
	var got []string
	err := Each(strings.NewReader("a\nstop\nc\n"), 100, func(line []byte) (bool, error) {
		got = append(got, string(line))
		return string(line) == "stop", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"a", "stop"}) {
		t.Errorf("got %q", got)
	}
}

func TestEachCallbackError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Each(strings.NewReader("a\nb\n"), 100, func([]byte) (bool, error) {
		calls++
		return false, boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Each() = %v after %d calls", err, calls)
	}
}
