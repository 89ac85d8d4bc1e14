package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
	apperrors "github.com/upkeephq/upkeep-api/pkg/errors"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Create inserts a subscription, or refreshes the keys of the existing row
// when the endpoint is already registered. On conflict the original row
// survives, so the caller's struct is filled from RETURNING rather than
// from the values it tried to insert.
func (r *subscriptionRepository) Create(ctx context.Context, sub *model.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (
			id, endpoint, p256dh_key, auth_key, last_used_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE
		SET p256dh_key = EXCLUDED.p256dh_key,
			auth_key = EXCLUDED.auth_key
		RETURNING id, last_used_at, created_at
	`
	now := time.Now()
	err := r.db.QueryRowxContext(ctx, query,
		uuid.New(),
		sub.Endpoint,
		sub.P256dhKey,
		sub.AuthKey,
		now,
		now,
	).Scan(&sub.ID, &sub.LastUsedAt, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) List(ctx context.Context) ([]*model.PushSubscription, error) {
	query := `
		SELECT id, endpoint, p256dh_key, auth_key, last_used_at, created_at
		FROM push_subscriptions
		ORDER BY created_at ASC
	`
	var subs []*model.PushSubscription
	err := r.db.SelectContext(ctx, &subs, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM push_subscriptions
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("subscription", nil)
	}

	return nil
}

func (r *subscriptionRepository) Touch(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE push_subscriptions
		SET last_used_at = $1
		WHERE id = $2
	`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch subscription: %w", err)
	}
	return nil
}
