package board

import (
	"fmt"
	"time"
)

// ArchiveCountdown is the time left before a Done task leaves the board,
// rendered as "Xh Ym", "Xh" or "Ym". ok is false once the window has passed
// or done_at is missing.
func ArchiveCountdown(doneAt *string, window time.Duration, now time.Time) (string, bool) {
	done := ParseDateValue(doneAt)
	if done == nil {
		return "", false
	}
	remaining := done.Add(window).Sub(now)
	if remaining <= 0 {
		return "", false
	}
	hours := int(remaining / time.Hour)
	minutes := int((remaining % time.Hour) / time.Minute)
	switch {
	case hours <= 0:
		return fmt.Sprintf("%dm", minutes), true
	case minutes == 0:
		return fmt.Sprintf("%dh", hours), true
	}
	return fmt.Sprintf("%dh %dm", hours, minutes), true
}

// FormatDateTime renders an absolute timestamp for the viewer. Missing
// values read "N/A"; unparsable ones are shown as received.
func FormatDateTime(raw *string, loc Locale) string {
	if raw == nil || *raw == "" {
		return "N/A"
	}
	t := ParseDateValue(raw)
	if t == nil {
		return *raw
	}
	return loc.FormatDateTime(*t)
}
