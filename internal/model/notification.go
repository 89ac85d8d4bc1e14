package model

import (
	"time"

	"github.com/google/uuid"
)

// ThresholdType names how far before (or after) a task's due date a
// notification fires.
type ThresholdType string

const (
	ThresholdOneMonth     ThresholdType = "one_month"
	ThresholdTwoWeeks     ThresholdType = "two_weeks"
	ThresholdOneWeek      ThresholdType = "one_week"
	ThresholdThreeDays    ThresholdType = "three_days"
	ThresholdOneDay       ThresholdType = "one_day"
	ThresholdDueDate      ThresholdType = "due_date"
	ThresholdOverdueDaily ThresholdType = "overdue_daily"
)

// NotificationSettings is the single global record controlling which
// thresholds fire. Owned by the CRUD layer; read-only here.
type NotificationSettings struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	Enabled            bool      `db:"enabled" json:"enabled"`
	NotifyOneMonth     bool      `db:"notify_one_month" json:"notify_one_month"`
	NotifyTwoWeeks     bool      `db:"notify_two_weeks" json:"notify_two_weeks"`
	NotifyOneWeek      bool      `db:"notify_one_week" json:"notify_one_week"`
	NotifyThreeDays    bool      `db:"notify_three_days" json:"notify_three_days"`
	NotifyOneDay       bool      `db:"notify_one_day" json:"notify_one_day"`
	NotifyDueDate      bool      `db:"notify_due_date" json:"notify_due_date"`
	NotifyOverdueDaily bool      `db:"notify_overdue_daily" json:"notify_overdue_daily"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// ThresholdEnabled reports whether the flag for the given threshold type is
// set. Unknown types are treated as disabled.
func (s *NotificationSettings) ThresholdEnabled(t ThresholdType) bool {
	switch t {
	case ThresholdOneMonth:
		return s.NotifyOneMonth
	case ThresholdTwoWeeks:
		return s.NotifyTwoWeeks
	case ThresholdOneWeek:
		return s.NotifyOneWeek
	case ThresholdThreeDays:
		return s.NotifyThreeDays
	case ThresholdOneDay:
		return s.NotifyOneDay
	case ThresholdDueDate:
		return s.NotifyDueDate
	case ThresholdOverdueDaily:
		return s.NotifyOverdueDaily
	}
	return false
}

// DueTask pairs a task with the threshold it currently satisfies. Computed
// fresh each scan, never persisted.
type DueTask struct {
	Task          *Task
	Equipment     *Equipment
	TaskType      *TaskType
	DaysUntilDue  int
	IsOverdue     bool
	ThresholdType ThresholdType
}

// PushPayload is the wire shape delivered to the client push handler.
type PushPayload struct {
	Title string          `json:"title"`
	Body  string          `json:"body"`
	Icon  string          `json:"icon"`
	Badge string          `json:"badge"`
	Data  PushPayloadData `json:"data"`
}

type PushPayloadData struct {
	URL string `json:"url"`
}

// SchedulerStatus is returned by the scheduler status endpoint.
type SchedulerStatus struct {
	Running  bool   `json:"running"`
	Schedule string `json:"schedule"`
}

// CheckResult summarizes one pipeline run.
type CheckResult struct {
	DueTasks      int `json:"due_tasks"`
	Notifications int `json:"notifications"`
	Delivered     int `json:"delivered"`
}

// NotificationEvent is published to the message broker after a pipeline run
// so in-app consumers (activity feed) can react without polling.
type NotificationEvent struct {
	ID            uuid.UUID     `json:"id"`
	TaskID        uuid.UUID     `json:"task_id"`
	ThresholdType ThresholdType `json:"threshold_type"`
	Title         string        `json:"title"`
	Body          string        `json:"body"`
	CreatedAt     time.Time     `json:"created_at"`
}
