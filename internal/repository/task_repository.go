package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// archivedClause selects tasks that left the board: deleted ones and Done
// tasks whose done_at is at or before the cutoff.
const archivedClause = "deleted_at IS NOT NULL OR (status = ? AND done_at IS NOT NULL AND done_at <= ?)"

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID, archived tasks included
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).Unscoped().First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListActive returns tasks still on the board. Done tasks completed at or
// before cutoff are left out.
func (r *TaskRepository) ListActive(ctx context.Context, cutoff time.Time, skip, limit int) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Where("NOT (status = ? AND done_at IS NOT NULL AND done_at <= ?)", model.StatusDone, cutoff).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// ListArchived returns deleted and expired Done tasks, most recently
// archived first
func (r *TaskRepository) ListArchived(ctx context.Context, cutoff time.Time, skip, limit int) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Unscoped().
		Where(archivedClause, model.StatusDone, cutoff).
		Order("COALESCE(deleted_at, done_at) DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// NextOrderIndex returns the index that appends a task to the end of a column
func (r *TaskRepository) NextOrderIndex(ctx context.Context, status model.Status) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("status = ?", status).
		Select("COALESCE(MAX(order_index), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Update writes every column of an existing task, archived or not
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Unscoped().
		Model(task).
		Select("*").
		Omit("id", "created_at").
		Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Reorder assigns order_index 1..n following ids. Ids that are unknown or
// whose status differs are skipped. The matched tasks are returned in the
// requested order.
func (r *TaskRepository) Reorder(ctx context.Context, status model.Status, ids []int64) ([]model.Task, error) {
	if len(ids) == 0 {
		return []model.Task{}, nil
	}

	ordered := make([]model.Task, 0, len(ids))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tasks []model.Task
		if err := tx.Where("id IN ?", ids).Find(&tasks).Error; err != nil {
			return err
		}
		byID := make(map[int64]*model.Task, len(tasks))
		for i := range tasks {
			byID[tasks[i].ID] = &tasks[i]
		}

		for i, id := range ids {
			task, ok := byID[id]
			if !ok || task.Status != status {
				continue
			}
			index := i + 1
			if err := tx.Model(&model.Task{}).
				Where("id = ?", id).
				Update("order_index", index).Error; err != nil {
				return err
			}
			task.OrderIndex = &index
		}

		for _, id := range ids {
			if task, ok := byID[id]; ok {
				ordered = append(ordered, *task)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ordered, nil
}

// SoftDelete moves an active task to the archive
func (r *TaskRepository) SoftDelete(ctx context.Context, id int64, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Update("deleted_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// HardDelete removes a task permanently
func (r *TaskRepository) HardDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteArchived removes every archived task and reports how many went
func (r *TaskRepository) DeleteArchived(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Unscoped().
		Where(archivedClause, model.StatusDone, cutoff).
		Delete(&model.Task{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
