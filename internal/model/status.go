package model

import (
	"fmt"
	"strings"
)

// Status is the column a task lives in.
type Status string

const (
	StatusToDo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

// Statuses lists the board columns in workflow order.
var Statuses = []Status{StatusToDo, StatusInProgress, StatusDone}

// legacyStatuses maps values written by older clients onto the current set.
var legacyStatuses = map[string]Status{
	"todo":    StatusToDo,
	"ongoing": StatusInProgress,
}

// ParseStatus accepts the canonical column names (case-insensitive) and
// the legacy "ToDo"/"Ongoing" spellings.
func ParseStatus(raw string) (Status, error) {
	value := strings.TrimSpace(raw)
	for _, s := range Statuses {
		if strings.EqualFold(value, string(s)) {
			return s, nil
		}
	}
	if s, ok := legacyStatuses[strings.ToLower(value)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("invalid status %q", raw)
}

// Valid reports whether s is one of the board columns.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Next returns the status that follows s in the workflow.
// Done has no successor.
func (s Status) Next() (Status, bool) {
	for i, v := range Statuses {
		if v == s && i < len(Statuses)-1 {
			return Statuses[i+1], true
		}
	}
	return "", false
}
