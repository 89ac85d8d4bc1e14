package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is one registered browser push endpoint. Created by the
// registration endpoint, deleted when the push service reports the endpoint
// permanently gone, LastUsedAt bumped on every successful send.
type PushSubscription struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Endpoint   string    `db:"endpoint" json:"endpoint"`
	P256dhKey  string    `db:"p256dh_key" json:"p256dh_key"`
	AuthKey    string    `db:"auth_key" json:"auth_key"`
	LastUsedAt time.Time `db:"last_used_at" json:"last_used_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
