package notification

import (
	"time"

	"github.com/upkeephq/upkeep-api/internal/model"
)

// Lead time in days for each threshold type. overdue_daily has no fixed
// lead time, it matches any negative day count.
var thresholdLeadDays = map[model.ThresholdType]int{
	model.ThresholdOneMonth:  30,
	model.ThresholdTwoWeeks:  14,
	model.ThresholdOneWeek:   7,
	model.ThresholdThreeDays: 3,
	model.ThresholdOneDay:    1,
	model.ThresholdDueDate:   0,
}

// Evaluation order, farthest out first. Matching is disjoint on day values
// so at most one of these can match a given task.
var thresholdOrder = []model.ThresholdType{
	model.ThresholdOneMonth,
	model.ThresholdTwoWeeks,
	model.ThresholdOneWeek,
	model.ThresholdThreeDays,
	model.ThresholdOneDay,
	model.ThresholdDueDate,
}

// midnight truncates t to the start of its calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysUntil returns the signed whole-day count from today to due. Both
// arguments are reduced to their UTC calendar dates first, so a non-UTC
// server clock and DST shifts cannot skew the count.
func daysUntil(due, today time.Time) int {
	dy, dm, dd := due.In(time.UTC).Date()
	ty, tm, td := today.In(time.UTC).Date()
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	t := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t) / (24 * time.Hour))
}

// matchThresholds returns the threshold types the given day count satisfies,
// restricted to thresholds enabled in settings. A negative count matches only
// overdue_daily; non-negative counts match at most one fixed threshold.
func matchThresholds(daysDiff int, settings *model.NotificationSettings) []model.ThresholdType {
	var matches []model.ThresholdType

	if daysDiff < 0 {
		if settings.ThresholdEnabled(model.ThresholdOverdueDaily) {
			matches = append(matches, model.ThresholdOverdueDaily)
		}
		return matches
	}

	for _, t := range thresholdOrder {
		if settings.ThresholdEnabled(t) && daysDiff == thresholdLeadDays[t] {
			matches = append(matches, t)
		}
	}
	return matches
}
