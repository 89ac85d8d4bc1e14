package model

import (
	"time"

	"github.com/google/uuid"
)

// Equipment is an owned item that maintenance tasks are tracked against.
// Owned by the CRUD layer; this service only reads it.
type Equipment struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Make         string     `db:"make" json:"make"`
	Model        string     `db:"model" json:"model"`
	UsageUnit    string     `db:"usage_unit" json:"usage_unit"`
	CurrentUsage *float64   `db:"current_usage" json:"current_usage,omitempty"`
	PurchasedAt  *time.Time `db:"purchased_at" json:"purchased_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
