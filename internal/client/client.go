// Package client talks to the board server over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/api"
	"taskboard/internal/model"
)

const genericFailure = "Network response was not ok"

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client performs every board mutation and read.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a Client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListActive(ctx context.Context) ([]api.Task, error) {
	var tasks []api.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) ListArchived(ctx context.Context) ([]api.Task, error) {
	var tasks []api.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/archived", nil, &tasks); err != nil {
		return nil, fmt.Errorf("list archived tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	tags := []string{}
	if err := c.do(ctx, http.MethodGet, "/tags/", nil, &tags); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Create validates the draft and posts it. An invalid draft never
// reaches the server.
func (c *Client) Create(ctx context.Context, d Draft) (*api.Task, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	var task api.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/", d.CreateRequest(), &task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// Update sends the fields set in req.
func (c *Client) Update(ctx context.Context, id int64, req api.TaskUpdateRequest) (*api.Task, error) {
	if req.Title.Set && (req.Title.Value == nil || strings.TrimSpace(*req.Title.Value) == "") {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidDraft)
	}
	var task api.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), req, &task); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &task, nil
}

// UpdateStatus moves a task to another column.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status model.Status) (*api.Task, error) {
	return c.Update(ctx, id, api.TaskUpdateRequest{Status: api.Some(string(status))})
}

// Delete archives an active task or removes an archived one.
func (c *Client) Delete(ctx context.Context, id int64) (*api.Task, error) {
	var task api.Task
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, &task); err != nil {
		return nil, fmt.Errorf("delete task %d: %w", id, err)
	}
	return &task, nil
}

// Reorder persists the order of one column. An empty list is not sent.
func (c *Client) Reorder(ctx context.Context, status model.Status, ids []int64) ([]api.Task, error) {
	if len(ids) == 0 {
		return []api.Task{}, nil
	}
	var tasks []api.Task
	body := api.ReorderRequest{Status: string(status), OrderedIDs: ids}
	if err := c.do(ctx, http.MethodPut, "/tasks/reorder", body, &tasks); err != nil {
		return nil, fmt.Errorf("reorder %s: %w", status, err)
	}
	return tasks, nil
}

func (c *Client) Restore(ctx context.Context, id int64) (*api.Task, error) {
	var task api.Task
	if err := c.do(ctx, http.MethodPut, taskPath(id)+"/restore", nil, &task); err != nil {
		return nil, fmt.Errorf("restore task %d: %w", id, err)
	}
	return &task, nil
}

// PurgeArchived removes every archived task and returns how many went.
func (c *Client) PurgeArchived(ctx context.Context) (int64, error) {
	var resp api.PurgeResponse
	if err := c.do(ctx, http.MethodDelete, "/tasks/archived", nil, &resp); err != nil {
		return 0, fmt.Errorf("purge archived tasks: %w", err)
	}
	return resp.DeletedCount, nil
}

func taskPath(id int64) string {
	return "/tasks/" + url.PathEscape(fmt.Sprint(id))
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Detail: genericFailure}
	var body api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Detail != "" {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
