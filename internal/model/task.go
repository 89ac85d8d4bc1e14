package model

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
)

// TaskType names a kind of maintenance work (oil change, filter swap, ...).
type TaskType struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Task is a scheduled maintenance task for one piece of equipment. A task
// recurs either by elapsed usage (UsageInterval in the equipment's usage
// unit) or by elapsed time (TimeIntervalDays), or both. NextDueDate may be
// absent for usage-only tasks that have no projected date yet.
type Task struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	EquipmentID       uuid.UUID  `db:"equipment_id" json:"equipment_id"`
	TaskTypeID        uuid.UUID  `db:"task_type_id" json:"task_type_id"`
	Status            TaskStatus `db:"status" json:"status"`
	UsageInterval     *float64   `db:"usage_interval" json:"usage_interval,omitempty"`
	TimeIntervalDays  *int       `db:"time_interval_days" json:"time_interval_days,omitempty"`
	NextDueDate       *time.Time `db:"next_due_date" json:"next_due_date,omitempty"`
	NextDueUsageValue *float64   `db:"next_due_usage_value" json:"next_due_usage_value,omitempty"`
	Notes             string     `db:"notes" json:"notes"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
