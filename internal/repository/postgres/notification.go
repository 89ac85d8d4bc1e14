package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// GetSettings returns the single global settings row, or nil when no
// settings record has been created yet (notifications unconfigured).
func (r *notificationRepository) GetSettings(ctx context.Context) (*model.NotificationSettings, error) {
	query := `
		SELECT id, enabled,
			   notify_one_month, notify_two_weeks, notify_one_week,
			   notify_three_days, notify_one_day, notify_due_date,
			   notify_overdue_daily, updated_at
		FROM notification_settings
		LIMIT 1
	`
	var settings model.NotificationSettings
	err := r.db.GetContext(ctx, &settings, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}
	return &settings, nil
}

func (r *notificationRepository) LedgerHasEntry(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notification_log
			WHERE task_id = $1 AND threshold_type = $2 AND notification_date = $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, taskID, threshold, date)
	if err != nil {
		return false, fmt.Errorf("failed to check notification log: %w", err)
	}
	return exists, nil
}

func (r *notificationRepository) LedgerAppend(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) error {
	query := `
		INSERT INTO notification_log (
			id, task_id, threshold_type, notification_date, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		uuid.New(),
		taskID,
		threshold,
		date,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to append notification log: %w", err)
	}
	return nil
}
