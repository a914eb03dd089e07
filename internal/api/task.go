// Package api holds the JSON shapes exchanged between the board server and
// its clients.
package api

import (
	"bytes"
	"encoding/json"

	"taskboard/internal/model"
)

// DateLayout is the wire format of due dates.
const DateLayout = "2006-01-02"

// Task is the wire form of a task. Timestamps are kept as strings so that a
// client can tell a missing value from an unparsable one.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Tags        *string      `json:"tags"`
	DueDate     *string      `json:"due_date"`
	Status      model.Status `json:"status"`
	Urgent      bool         `json:"urgent"`
	OrderIndex  *int         `json:"order_index"`
	CreatedAt   *string      `json:"created_at"`
	DoneAt      *string      `json:"done_at"`
	DeletedAt   *string      `json:"deleted_at"`
}

// TaskCreateRequest is the body of POST /tasks/.
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required" validate:"required"`
	Description *string `json:"description"`
	Tags        *string `json:"tags"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
	Urgent      bool    `json:"urgent"`
}

// TaskUpdateRequest is the body of PUT /tasks/{id}. Only fields present in
// the JSON document are applied; an explicit null clears a nullable field.
type TaskUpdateRequest struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Tags        Optional[string] `json:"tags"`
	DueDate     Optional[string] `json:"due_date"`
	Status      Optional[string] `json:"status"`
	Urgent      Optional[bool]   `json:"urgent"`
}

// MarshalJSON emits only the fields that were set.
func (r TaskUpdateRequest) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 6)
	put := func(name string, set bool, value any) {
		if set {
			fields[name] = value
		}
	}
	put("title", r.Title.Set, r.Title.Value)
	put("description", r.Description.Set, r.Description.Value)
	put("tags", r.Tags.Set, r.Tags.Value)
	put("due_date", r.DueDate.Set, r.DueDate.Value)
	put("status", r.Status.Set, r.Status.Value)
	put("urgent", r.Urgent.Set, r.Urgent.Value)
	return json.Marshal(fields)
}

// ReorderRequest is the body of PUT /tasks/reorder.
type ReorderRequest struct {
	Status     string  `json:"status" binding:"required"`
	OrderedIDs []int64 `json:"ordered_ids" binding:"required"`
}

// PurgeResponse is returned by DELETE /tasks/archived.
type PurgeResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Optional distinguishes an absent JSON field from an explicit null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns a set Optional holding null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
