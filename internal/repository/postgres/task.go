package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
)

type taskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) ListPending(ctx context.Context) ([]*model.Task, error) {
	query := `
		SELECT id, equipment_id, task_type_id, status,
			   usage_interval, time_interval_days,
			   next_due_date, next_due_usage_value, notes,
			   created_at, updated_at
		FROM tasks
		WHERE status = $1
		ORDER BY next_due_date ASC NULLS LAST
	`
	var tasks []*model.Task
	err := r.db.SelectContext(ctx, &tasks, query, model.TaskStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending tasks: %w", err)
	}
	return tasks, nil
}
