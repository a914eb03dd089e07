package api

import (
	"time"

	"taskboard/internal/model"
)

// FromModel converts a stored task to its wire form.
func FromModel(t model.Task) Task {
	out := Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Tags:        t.Tags,
		Status:      t.Status,
		Urgent:      t.Urgent,
		OrderIndex:  t.OrderIndex,
	}
	if t.DueDate != nil {
		v := t.DueDate.Format(DateLayout)
		out.DueDate = &v
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = formatTimestamp(t.CreatedAt)
	}
	if t.DoneAt != nil {
		out.DoneAt = formatTimestamp(*t.DoneAt)
	}
	if t.DeletedAt.Valid {
		out.DeletedAt = formatTimestamp(t.DeletedAt.Time)
	}
	return out
}

// FromModels converts a slice of stored tasks.
func FromModels(tasks []model.Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, FromModel(t))
	}
	return out
}

func formatTimestamp(t time.Time) *string {
	v := t.UTC().Format(time.RFC3339)
	return &v
}
