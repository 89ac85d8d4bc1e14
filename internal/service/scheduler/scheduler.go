package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/pkg/logger"
)

// ErrCheckInFlight is returned when a manual trigger arrives while a check
// is already running.
var ErrCheckInFlight = errors.New("a notification check is already running")

// Checker is the pipeline the scheduler drives once per trigger.
type Checker interface {
	RunCheck(ctx context.Context) (*model.CheckResult, error)
}

// Scheduler owns the recurring trigger for the notification pipeline.
// Start/Stop manage the cron schedule; runs themselves are serialized by a
// per-run lock so an overlapping trigger is skipped instead of doubling up.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	checker  Checker
	logger   *logger.Logger

	mu      sync.Mutex // guards running/entryID
	running bool
	entryID cron.EntryID

	runMu sync.Mutex // serializes pipeline runs
}

func New(schedule string, checker Checker, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		checker:  checker,
		logger:   logger,
	}
}

// Start registers the trigger and starts the cron loop. Calling Start while
// already running is a logged no-op.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("scheduler already running", "schedule", s.schedule)
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.run(context.Background()); err != nil {
			if errors.Is(err, ErrCheckInFlight) {
				s.logger.Warn("previous check still running, skipping trigger")
				return
			}
			s.logger.Error(err, "scheduled notification check failed")
		}
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop halts the cron loop. Calling Stop while stopped is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Remove(s.entryID)
	s.cron.Stop()
	s.running = false
	s.logger.Info("scheduler stopped")
}

// RunNow executes one pipeline pass outside the timer, subject to the same
// run exclusion as scheduled triggers.
func (s *Scheduler) RunNow(ctx context.Context) (*model.CheckResult, error) {
	return s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) (*model.CheckResult, error) {
	if !s.runMu.TryLock() {
		return nil, ErrCheckInFlight
	}
	defer s.runMu.Unlock()

	return s.checker.RunCheck(ctx)
}

// Status reports whether the schedule is active and its cron descriptor.
func (s *Scheduler) Status() model.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.SchedulerStatus{
		Running:  s.running,
		Schedule: s.schedule,
	}
}
