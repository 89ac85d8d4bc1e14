package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/internal/repository"
	"github.com/upkeephq/upkeep-api/pkg/logger"
	"github.com/upkeephq/upkeep-api/pkg/messaging"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
)

const (
	settingsCacheKey = "notification_settings"
	settingsCacheTTL = time.Minute
)

// Service runs the due-task detection and notification pipeline:
// scan -> group -> compose -> deliver -> record.
type Service struct {
	tasks         repository.TaskRepository
	equipment     repository.EquipmentRepository
	taskTypes     repository.TaskTypeRepository
	notifications repository.NotificationRepository
	delivery      *Delivery
	composer      *Composer
	broker        messaging.Broker
	cache         *gocache.Cache
	logger        *logger.Logger
	metrics       *metrics.Metrics

	// now is swappable so tests can pin the calendar date.
	now func() time.Time
}

func NewService(
	tasks repository.TaskRepository,
	equipment repository.EquipmentRepository,
	taskTypes repository.TaskTypeRepository,
	notifications repository.NotificationRepository,
	delivery *Delivery,
	composer *Composer,
	broker messaging.Broker,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		tasks:         tasks,
		equipment:     equipment,
		taskTypes:     taskTypes,
		notifications: notifications,
		delivery:      delivery,
		composer:      composer,
		broker:        broker,
		cache:         gocache.New(settingsCacheTTL, 5*time.Minute),
		logger:        logger,
		metrics:       metrics,
		now:           time.Now,
	}
}

// getSettings reads the global settings record through a short-lived cache
// so back-to-back manual triggers don't hit the database every time.
func (s *Service) getSettings(ctx context.Context) (*model.NotificationSettings, error) {
	if cached, ok := s.cache.Get(settingsCacheKey); ok {
		return cached.(*model.NotificationSettings), nil
	}

	settings, err := s.notifications.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings != nil {
		s.cache.Set(settingsCacheKey, settings, gocache.DefaultExpiration)
	}
	return settings, nil
}

// RunCheck executes one full pipeline pass. The dedup ledger is appended
// once per (task, threshold) after the corresponding broadcast has been
// attempted, whether or not any subscriber received it; a notification is
// "processed" once dispatch was tried, which keeps persistent transport
// failures from turning into notification storms.
func (s *Service) RunCheck(ctx context.Context) (*model.CheckResult, error) {
	timer := prometheus.NewTimer(s.metrics.CheckDuration)
	defer timer.ObserveDuration()
	s.metrics.ChecksRun.Inc()

	due, err := s.Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := &model.CheckResult{DueTasks: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	dateKey := midnight(s.now().UTC()).Format("2006-01-02")

	for _, group := range groupDueTasks(due) {
		if len(group.Tasks) < batchThreshold {
			for _, dt := range group.Tasks {
				payload := s.composer.Individual(dt)
				sent, err := s.delivery.Broadcast(ctx, payload)
				if err != nil {
					return result, err
				}
				result.Notifications++
				result.Delivered += sent
				s.recordNotified(ctx, dt, payload, dateKey)
			}
			continue
		}

		payload := s.composer.Batched(group)
		sent, err := s.delivery.Broadcast(ctx, payload)
		if err != nil {
			return result, err
		}
		result.Notifications++
		result.Delivered += sent
		for _, dt := range group.Tasks {
			s.recordNotified(ctx, dt, payload, dateKey)
		}
	}

	s.logger.Info("notification check completed",
		"due_tasks", result.DueTasks,
		"notifications", result.Notifications,
		"delivered", result.Delivered)
	return result, nil
}

// recordNotified appends the dedup ledger and publishes the broker event for
// one due task. Both failures are logged and swallowed: a missed ledger
// write means at worst a repeat notification on the next run, and event
// publishing must never affect the pipeline outcome.
func (s *Service) recordNotified(ctx context.Context, dt model.DueTask, payload *model.PushPayload, dateKey string) {
	if err := s.notifications.LedgerAppend(ctx, dt.Task.ID, dt.ThresholdType, dateKey); err != nil {
		s.logger.Error(err, "failed to record notification",
			"task_id", dt.Task.ID.String(), "threshold", string(dt.ThresholdType))
	}

	if s.broker == nil {
		return
	}
	event := &model.NotificationEvent{
		ID:            uuid.New(),
		TaskID:        dt.Task.ID,
		ThresholdType: dt.ThresholdType,
		Title:         payload.Title,
		Body:          payload.Body,
		CreatedAt:     s.now(),
	}
	if err := s.broker.Publish(ctx, messaging.ChannelNotificationSent, event); err != nil {
		s.logger.Warn("failed to publish notification event", "task_id", dt.Task.ID.String())
	}
}

// SendTestBroadcast delivers a fixed test payload to every current
// subscription, bypassing scanning and grouping entirely.
func (s *Service) SendTestBroadcast(ctx context.Context) (int, error) {
	return s.delivery.Broadcast(ctx, s.composer.Test())
}
