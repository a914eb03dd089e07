package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/api"
	"taskboard/internal/cache"
	"taskboard/internal/logger"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	DefaultActiveLimit   = 100
	DefaultArchivedLimit = 200
)

type taskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	ListActive(ctx context.Context, cutoff time.Time, skip, limit int) ([]model.Task, error)
	ListArchived(ctx context.Context, cutoff time.Time, skip, limit int) ([]model.Task, error)
	NextOrderIndex(ctx context.Context, status model.Status) (int, error)
	Update(ctx context.Context, task *model.Task) error
	Reorder(ctx context.Context, status model.Status, ids []int64) ([]model.Task, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) error
	HardDelete(ctx context.Context, id int64) error
	DeleteArchived(ctx context.Context, cutoff time.Time) (int64, error)
}

type tagStore interface {
	EnsureTags(ctx context.Context, names []string) error
	List(ctx context.Context) ([]string, error)
}

// TaskService applies the board rules on top of the repositories: order
// assignment, done_at bookkeeping and the archive window.
type TaskService struct {
	tasks  taskStore
	tags   tagStore
	cache  *cache.Cache
	window time.Duration
	now    func() time.Time
	log    *logger.Logger
}

func NewTaskService(tasks taskStore, tags tagStore, c *cache.Cache, window time.Duration, log *logger.Logger) *TaskService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TaskService{
		tasks:  tasks,
		tags:   tags,
		cache:  c,
		window: window,
		now:    time.Now,
		log:    log.WithComponent("task_service"),
	}
}

// WithClock replaces the time source.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *TaskService) cutoff() time.Time {
	return s.clock().Add(-s.window)
}

// ListActive returns the tasks on the board.
func (s *TaskService) ListActive(ctx context.Context, skip, limit int) ([]model.Task, error) {
	skip, limit = page(skip, limit, DefaultActiveLimit)
	field := fmt.Sprintf("active:%d:%d", skip, limit)

	var tasks []model.Task
	if s.cache.Load(ctx, cache.GroupTasks, field, &tasks) {
		return tasks, nil
	}

	tasks, err := s.tasks.ListActive(ctx, s.cutoff(), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list active tasks: %w", err)
	}
	s.cache.Store(ctx, cache.GroupTasks, field, tasks)
	return tasks, nil
}

// ListArchived returns deleted and expired Done tasks, newest first.
func (s *TaskService) ListArchived(ctx context.Context, skip, limit int) ([]model.Task, error) {
	skip, limit = page(skip, limit, DefaultArchivedLimit)
	field := fmt.Sprintf("archived:%d:%d", skip, limit)

	var tasks []model.Task
	if s.cache.Load(ctx, cache.GroupTasks, field, &tasks) {
		return tasks, nil
	}

	tasks, err := s.tasks.ListArchived(ctx, s.cutoff(), skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list archived tasks: %w", err)
	}
	s.cache.Store(ctx, cache.GroupTasks, field, tasks)
	return tasks, nil
}

// ListTags returns every remembered tag name.
func (s *TaskService) ListTags(ctx context.Context) ([]string, error) {
	var names []string
	if s.cache.Load(ctx, cache.GroupTags, "all", &names) {
		return names, nil
	}

	names, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	s.cache.Store(ctx, cache.GroupTags, "all", names)
	return names, nil
}

func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (*model.Task, error) {
	title, err := normalizeTitle(req.Title)
	if err != nil {
		return nil, err
	}

	status := model.StatusToDo
	if strings.TrimSpace(req.Status) != "" {
		if status, err = parseStatus(req.Status); err != nil {
			return nil, err
		}
	}

	due, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	index, err := s.tasks.NextOrderIndex(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}

	task := &model.Task{
		Title:       title,
		Description: req.Description,
		Tags:        req.Tags,
		DueDate:     due,
		Status:      status,
		Urgent:      req.Urgent,
		OrderIndex:  &index,
		CreatedAt:   s.clock(),
	}
	if status == model.StatusDone {
		doneAt := s.clock()
		task.DoneAt = &doneAt
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.rememberTags(ctx, task.Tags)
	s.cache.Evict(ctx, cache.GroupTasks)

	s.log.Infow("task created", "task_id", task.ID, "status", task.Status)
	return task, nil
}

// Update applies the fields present in req. A status change moves the task
// to the end of its new column and keeps done_at in step with Done.
func (s *TaskService) Update(ctx context.Context, id int64, req api.TaskUpdateRequest) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title.Set {
		if req.Title.Value == nil {
			return nil, fmt.Errorf("%w: title must not be null", ErrValidation)
		}
		if task.Title, err = normalizeTitle(*req.Title.Value); err != nil {
			return nil, err
		}
	}
	if req.Description.Set {
		task.Description = req.Description.Value
	}
	if req.Tags.Set {
		task.Tags = req.Tags.Value
	}
	if req.DueDate.Set {
		if task.DueDate, err = parseDueDate(req.DueDate.Value); err != nil {
			return nil, err
		}
	}
	if req.Urgent.Set {
		task.Urgent = req.Urgent.Value != nil && *req.Urgent.Value
	}
	if req.Status.Set {
		if req.Status.Value == nil {
			return nil, fmt.Errorf("%w: status must not be null", ErrValidation)
		}
		status, err := parseStatus(*req.Status.Value)
		if err != nil {
			return nil, err
		}
		if err := s.moveTo(ctx, task, status); err != nil {
			return nil, err
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if req.Tags.Set {
		s.rememberTags(ctx, task.Tags)
	}
	s.cache.Evict(ctx, cache.GroupTasks)
	return task, nil
}

// Reorder persists a manual column order.
func (s *TaskService) Reorder(ctx context.Context, rawStatus string, ids []int64) ([]model.Task, error) {
	status, err := parseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.Reorder(ctx, status, ids)
	if err != nil {
		return nil, fmt.Errorf("reorder %s: %w", status, err)
	}
	s.cache.Evict(ctx, cache.GroupTasks)
	return tasks, nil
}

// Delete archives an active task and permanently removes an archived one.
// The returned task reflects its state after the call.
func (s *TaskService) Delete(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if task.ArchivedAt(s.window, now) != nil {
		if err := s.tasks.HardDelete(ctx, id); err != nil {
			return nil, fmt.Errorf("remove task %d: %w", id, err)
		}
		s.log.Infow("task removed", "task_id", id)
	} else {
		if err := s.tasks.SoftDelete(ctx, id, now); err != nil {
			return nil, fmt.Errorf("archive task %d: %w", id, err)
		}
		task.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
		s.log.Infow("task archived", "task_id", id)
	}

	s.cache.Evict(ctx, cache.GroupTasks)
	return task, nil
}

// Restore brings an archived task back to the end of the To Do column.
func (s *TaskService) Restore(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	task.DeletedAt = gorm.DeletedAt{}
	if err := s.moveTo(ctx, task, model.StatusToDo); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("restore task %d: %w", id, err)
	}

	s.cache.Evict(ctx, cache.GroupTasks)
	return task, nil
}

// PurgeArchived permanently removes every archived task.
func (s *TaskService) PurgeArchived(ctx context.Context) (int64, error) {
	count, err := s.tasks.DeleteArchived(ctx, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("purge archived tasks: %w", err)
	}
	s.cache.Evict(ctx, cache.GroupTasks)
	s.log.Infow("archived tasks purged", "deleted_count", count)
	return count, nil
}

func (s *TaskService) moveTo(ctx context.Context, task *model.Task, status model.Status) error {
	if task.Status != status {
		index, err := s.tasks.NextOrderIndex(ctx, status)
		if err != nil {
			return fmt.Errorf("next order index: %w", err)
		}
		task.Status = status
		task.OrderIndex = &index
	}

	switch {
	case status == model.StatusDone && task.DoneAt == nil:
		doneAt := s.clock()
		task.DoneAt = &doneAt
	case status != model.StatusDone:
		task.DoneAt = nil
	}
	return nil
}

// rememberTags records tag names for suggestions. Failures are logged and
// never fail the mutation that carried them.
func (s *TaskService) rememberTags(ctx context.Context, tags *string) {
	if tags == nil {
		return
	}
	if err := s.tags.EnsureTags(ctx, strings.Split(*tags, ",")); err != nil {
		s.log.WithError(err).Warn("failed to remember tags")
		return
	}
	s.cache.Evict(ctx, cache.GroupTags)
}

func normalizeTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	return title, nil
}

func parseStatus(raw string) (model.Status, error) {
	status, err := model.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return status, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	due, err := time.Parse(api.DateLayout, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", ErrValidation)
	}
	return &due, nil
}

func page(skip, limit, defaultLimit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return skip, limit
}

// IsNotFound reports whether err means the task does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrTaskNotFound)
}
