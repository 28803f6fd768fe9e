package tui

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// formatTime renders a relative timestamp for list displays.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatEventDate renders an event date, with a relative hint for near dates.
func formatEventDate(t time.Time) string {
	until := time.Until(t)
	switch {
	case until < 0:
		return t.Format("Jan 2 15:04") + " (past)"
	case until < 24*time.Hour:
		return t.Format("today 15:04")
	case until < 7*24*time.Hour:
		return fmt.Sprintf("%s (in %dd)", t.Format("Mon 15:04"), int(until.Hours()/24)+1)
	default:
		return t.Format("Mon Jan 2 2006 15:04")
	}
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if
// needed. Non-positive widths yield an empty string so a render at an
// unknown terminal size never slices out of range.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}
