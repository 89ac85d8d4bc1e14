package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
)

// Service manages push subscription registration. Re-registering an
// existing endpoint refreshes its encryption keys instead of duplicating it.
type Service struct {
	repo    repository.SubscriptionRepository
	metrics *metrics.Metrics
}

func NewService(repo repository.SubscriptionRepository, metrics *metrics.Metrics) *Service {
	return &Service{repo: repo, metrics: metrics}
}

func (s *Service) Register(ctx context.Context, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	sub := &model.PushSubscription{
		Endpoint:  endpoint,
		P256dhKey: p256dh,
		AuthKey:   auth,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to register subscription: %w", err)
	}

	s.refreshGauge(ctx)
	return sub, nil
}

func (s *Service) Unregister(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshGauge(ctx)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.PushSubscription, error) {
	return s.repo.List(ctx)
}

func (s *Service) refreshGauge(ctx context.Context) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return
	}
	s.metrics.ActiveSubscriptions.Set(float64(len(subs)))
}
