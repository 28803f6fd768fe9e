package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatTime(tc.t); got != tc.want {
				t.Errorf("formatTime = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatEventDate(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	if got := formatEventDate(past); !strings.HasSuffix(got, "(past)") {
		t.Errorf("past date = %q, want (past) suffix", got)
	}

	today := time.Now().Add(2 * time.Hour)
	if got := formatEventDate(today); !strings.HasPrefix(got, "today") {
		t.Errorf("near date = %q, want today prefix", got)
	}

	thisWeek := time.Now().Add(3 * 24 * time.Hour)
	if got := formatEventDate(thisWeek); !strings.Contains(got, "(in ") {
		t.Errorf("this-week date = %q, want relative hint", got)
	}

	far := time.Now().Add(60 * 24 * time.Hour)
	if got := formatEventDate(far); strings.Contains(got, "(") {
		t.Errorf("far date = %q, want plain absolute format", got)
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"fits", "short", 10, "short"},
		{"truncated", "a longer string", 8, "a longe…"},
		{"width one", "abc", 1, "…"},
		{"width zero", "anything", 0, ""},
		{"negative width", "anything", -4, ""},
		{"empty at zero", "", 0, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncStr(tc.in, tc.maxLen); got != tc.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tc.in, tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, line := range lines {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %v", lines)
	}

	if got := wrapText("", 20); got != nil {
		t.Errorf("empty input should produce no lines, got %v", got)
	}
}
