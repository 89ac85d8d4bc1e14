package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/upkeephq/upkeep-api/internal/model"
)

// Scan walks every pending task and returns the (task, threshold) pairs that
// are newly due today. It reads the dedup ledger but never writes it, so a
// scan can be repeated safely until a notification is actually dispatched.
func (s *Service) Scan(ctx context.Context) ([]model.DueTask, error) {
	settings, err := s.getSettings(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		s.metrics.ChecksSkipped.WithLabelValues("unconfigured").Inc()
		s.logger.Debug("notification settings absent, skipping scan")
		return nil, nil
	}
	if !settings.Enabled {
		s.metrics.ChecksSkipped.WithLabelValues("disabled").Inc()
		s.logger.Debug("notifications disabled, skipping scan")
		return nil, nil
	}

	tasks, err := s.tasks.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	equipment, taskTypes, err := s.loadLookups(ctx)
	if err != nil {
		return nil, err
	}

	// The ledger date key and the day arithmetic both live on the UTC
	// calendar, independent of the server's zone.
	today := midnight(s.now().UTC())
	dateKey := today.Format("2006-01-02")

	var due []model.DueTask
	for _, task := range tasks {
		if task.NextDueDate == nil {
			continue
		}

		eq, ok := equipment[task.EquipmentID]
		if !ok {
			s.logger.Warn("task references missing equipment, skipping",
				"task_id", task.ID.String(), "equipment_id", task.EquipmentID.String())
			continue
		}
		tt, ok := taskTypes[task.TaskTypeID]
		if !ok {
			s.logger.Warn("task references missing task type, skipping",
				"task_id", task.ID.String(), "task_type_id", task.TaskTypeID.String())
			continue
		}

		daysDiff := daysUntil(*task.NextDueDate, today)
		for _, threshold := range matchThresholds(daysDiff, settings) {
			notified, err := s.notifications.LedgerHasEntry(ctx, task.ID, threshold, dateKey)
			if err != nil {
				// Suppress on a failed ledger read: re-notifying next run is
				// recoverable, double-notifying today is not.
				s.logger.Error(err, "ledger check failed, suppressing",
					"task_id", task.ID.String(), "threshold", string(threshold))
				continue
			}
			if notified {
				continue
			}

			due = append(due, model.DueTask{
				Task:          task,
				Equipment:     eq,
				TaskType:      tt,
				DaysUntilDue:  daysDiff,
				IsOverdue:     daysDiff < 0,
				ThresholdType: threshold,
			})
		}
	}

	s.metrics.DueTasksFound.Add(float64(len(due)))
	return due, nil
}

// loadLookups batch-loads equipment and task types once per scan instead of
// resolving them per task.
func (s *Service) loadLookups(ctx context.Context) (map[uuid.UUID]*model.Equipment, map[uuid.UUID]*model.TaskType, error) {
	eqList, err := s.equipment.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	ttList, err := s.taskTypes.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	equipment := make(map[uuid.UUID]*model.Equipment, len(eqList))
	for _, eq := range eqList {
		equipment[eq.ID] = eq
	}
	taskTypes := make(map[uuid.UUID]*model.TaskType, len(ttList))
	for _, tt := range ttList {
		taskTypes[tt.ID] = tt
	}
	return equipment, taskTypes, nil
}
