package board

import (
	"strings"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
}

// ParseDateValue parses the timestamps and due dates the server emits.
// Date-only values are read as local calendar dates; values without a zone
// are read as local time. Empty or unparsable input yields nil.
func ParseDateValue(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil
	}
	if t, err := time.ParseInLocation(api.DateLayout, value, time.Local); err == nil {
		return &t
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	return nil
}

func parseMillis(raw *string) *int64 {
	t := ParseDateValue(raw)
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsOverdue reports whether the task's due date lies strictly before the
// start of the day containing now. Done tasks are never overdue.
func IsOverdue(t api.Task, now time.Time) bool {
	if t.Status == model.StatusDone || t.DueDate == nil {
		return false
	}
	value := strings.TrimSpace(*t.DueDate)
	var due time.Time
	if d, err := time.ParseInLocation(api.DateLayout, value, now.Location()); err == nil {
		due = d
	} else if p := ParseDateValue(t.DueDate); p != nil {
		due = *p
	} else {
		return false
	}
	return due.Before(startOfDay(now))
}

// Today returns the local calendar date of now in wire form.
func Today(now time.Time) string {
	return now.Format(api.DateLayout)
}
