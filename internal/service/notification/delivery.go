package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/push"
	"github.com/upkeephq/upkeep-api/internal/repository"
	"github.com/upkeephq/upkeep-api/pkg/logger"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
)

// Delivery sends composed payloads to registered subscriptions and prunes
// endpoints the push service reports as permanently gone.
type Delivery struct {
	subs      repository.SubscriptionRepository
	transport push.Transport
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewDelivery(subs repository.SubscriptionRepository, transport push.Transport, logger *logger.Logger, metrics *metrics.Metrics) *Delivery {
	return &Delivery{
		subs:      subs,
		transport: transport,
		logger:    logger,
		metrics:   metrics,
	}
}

// Send delivers one payload to one subscription. On success the
// subscription's last_used_at is bumped. When the push service reports the
// endpoint gone the subscription is deleted before the failure is returned.
func (d *Delivery) Send(ctx context.Context, sub *model.PushSubscription, payload *model.PushPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	if err := d.transport.Send(ctx, sub, body); err != nil {
		d.metrics.NotificationsFailed.Inc()

		if errors.Is(err, push.ErrSubscriptionGone) {
			if delErr := d.subs.Delete(ctx, sub.ID); delErr != nil {
				d.logger.Error(delErr, "failed to prune dead subscription", "subscription_id", sub.ID.String())
			} else {
				d.metrics.SubscriptionsPruned.Inc()
				d.logger.Info("pruned dead subscription", "subscription_id", sub.ID.String())
			}
		}
		return err
	}

	if err := d.subs.Touch(ctx, sub.ID); err != nil {
		// Delivery succeeded; a stale last_used_at is not worth failing over.
		d.logger.Warn("failed to update subscription last_used_at", "subscription_id", sub.ID.String())
	}

	d.metrics.NotificationsSent.Inc()
	return nil
}

// Broadcast attempts delivery to every current subscription. Attempts are
// independent: one failing endpoint never aborts the rest. Returns the
// number of successful sends.
func (d *Delivery) Broadcast(ctx context.Context, payload *model.PushPayload) (int, error) {
	subs, err := d.subs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		if err := d.Send(ctx, sub, payload); err != nil {
			d.logger.Warn("push delivery failed", "subscription_id", sub.ID.String(), "error", err.Error())
			continue
		}
		sent++
	}

	d.metrics.ActiveSubscriptions.Set(float64(len(subs)))
	return sent, nil
}
