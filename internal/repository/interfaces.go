package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep-api/internal/model"
)

// All repository interfaces in one file
type (
	// TaskRepository reads maintenance tasks. The CRUD write surface lives
	// in a separate service; this one only scans.
	TaskRepository interface {
		ListPending(ctx context.Context) ([]*model.Task, error)
	}

	// Equipment and task types are batch-loaded once per scan, so the read
	// surface is list-only.
	EquipmentRepository interface {
		List(ctx context.Context) ([]*model.Equipment, error)
	}

	TaskTypeRepository interface {
		List(ctx context.Context) ([]*model.TaskType, error)
	}

	// NotificationRepository owns the global settings record and the dedup
	// ledger. The ledger is append-only; entries are never updated or
	// deleted here.
	NotificationRepository interface {
		GetSettings(ctx context.Context) (*model.NotificationSettings, error)
		LedgerHasEntry(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) (bool, error)
		LedgerAppend(ctx context.Context, taskID uuid.UUID, threshold model.ThresholdType, date string) error
	}

	SubscriptionRepository interface {
		Create(ctx context.Context, sub *model.PushSubscription) error
		List(ctx context.Context) ([]*model.PushSubscription, error)
		Delete(ctx context.Context, id uuid.UUID) error
		Touch(ctx context.Context, id uuid.UUID) error
	}
)
