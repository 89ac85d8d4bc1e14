package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
)

type equipmentRepository struct {
	db *sqlx.DB
}

type taskTypeRepository struct {
	db *sqlx.DB
}

func NewEquipmentRepository(db *sqlx.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func NewTaskTypeRepository(db *sqlx.DB) repository.TaskTypeRepository {
	return &taskTypeRepository{db: db}
}

func (r *equipmentRepository) List(ctx context.Context) ([]*model.Equipment, error) {
	query := `
		SELECT id, name, make, model, usage_unit, current_usage,
			   purchased_at, created_at, updated_at
		FROM equipment
		ORDER BY name ASC
	`
	var equipment []*model.Equipment
	err := r.db.SelectContext(ctx, &equipment, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

func (r *taskTypeRepository) List(ctx context.Context) ([]*model.TaskType, error) {
	query := `
		SELECT id, name, description, created_at
		FROM task_types
		ORDER BY name ASC
	`
	var types []*model.TaskType
	err := r.db.SelectContext(ctx, &types, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return types, nil
}
