package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

// ErrInvalidDraft is returned for drafts rejected before any request.
var ErrInvalidDraft = errors.New("invalid task")

var validate = validator.New()

// Draft is a task as typed into a form. Empty optional fields are sent
// as null.
type Draft struct {
	Title       string `validate:"required"`
	Description string
	Tags        string
	DueDate     string `validate:"omitempty,datetime=2006-01-02"`
	Status      string
	Urgent      bool
}

// Trimmed returns d with surrounding whitespace removed from every field.
func (d Draft) Trimmed() Draft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Tags = strings.TrimSpace(d.Tags)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.Status = strings.TrimSpace(d.Status)
	return d
}

// Validate checks the trimmed draft.
func (d Draft) Validate() error {
	d = d.Trimmed()
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidDraft, describe(verrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if d.Status != "" {
		if _, err := model.ParseStatus(d.Status); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
		}
	}
	return nil
}

// CreateRequest is the POST body for the draft.
func (d Draft) CreateRequest() api.TaskCreateRequest {
	d = d.Trimmed()
	status := d.Status
	if status == "" {
		status = string(model.StatusToDo)
	}
	return api.TaskCreateRequest{
		Title:       d.Title,
		Description: nullable(d.Description),
		Tags:        nullable(d.Tags),
		DueDate:     nullable(d.DueDate),
		Status:      status,
		Urgent:      d.Urgent,
	}
}

// UpdateRequest is a full replacement of the editable fields.
func (d Draft) UpdateRequest() api.TaskUpdateRequest {
	d = d.Trimmed()
	req := api.TaskUpdateRequest{
		Title:       api.Some(d.Title),
		Description: optional(d.Description),
		Tags:        optional(d.Tags),
		DueDate:     optional(d.DueDate),
		Urgent:      api.Some(d.Urgent),
	}
	if d.Status != "" {
		req.Status = api.Some(d.Status)
	}
	return req
}

// DraftFrom fills a draft with the current values of t.
func DraftFrom(t api.Task) Draft {
	d := Draft{Title: t.Title, Status: string(t.Status), Urgent: t.Urgent}
	if t.Description != nil {
		d.Description = *t.Description
	}
	if t.Tags != nil {
		d.Tags = *t.Tags
	}
	if t.DueDate != nil {
		d.DueDate = *t.DueDate
	}
	return d
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "datetime":
		return "due date must be YYYY-MM-DD"
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optional(s string) api.Optional[string] {
	if s == "" {
		return api.Null[string]()
	}
	return api.Some(s)
}
