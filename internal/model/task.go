package model

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null;index"`
	Description *string
	Tags        *string
	DueDate     *time.Time `gorm:"type:date"`
	Status      Status     `gorm:"type:varchar(32);not null;default:'To Do';index"`
	Urgent      bool       `gorm:"not null;default:false"`
	OrderIndex  *int
	CreatedAt   time.Time
	DoneAt      *time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// ArchivedAt returns the moment the task left the active board, or nil
// when it is still active. deleted_at wins over the done window.
func (t *Task) ArchivedAt(window time.Duration, now time.Time) *time.Time {
	if t.DeletedAt.Valid {
		v := t.DeletedAt.Time
		return &v
	}
	if t.Status == StatusDone && t.DoneAt != nil && !t.DoneAt.Add(window).After(now) {
		v := *t.DoneAt
		return &v
	}
	return nil
}
