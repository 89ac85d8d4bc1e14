package notification

import "github.com/upkeephq/upkeep-api/internal/model"

type bucket string

const (
	bucketOverdue  bucket = "overdue"
	bucketToday    bucket = "today"
	bucketThisWeek bucket = "thisweek"
	bucketFuture   bucket = "future"
)

// Groups of batchThreshold or more tasks collapse into a single summary
// push; smaller groups get one push per task.
const batchThreshold = 3

type dueGroup struct {
	Bucket bucket
	Tasks  []model.DueTask
}

func bucketFor(dt model.DueTask) bucket {
	switch {
	case dt.IsOverdue:
		return bucketOverdue
	case dt.DaysUntilDue == 0:
		return bucketToday
	case dt.DaysUntilDue <= 7:
		return bucketThisWeek
	default:
		return bucketFuture
	}
}

// groupDueTasks partitions tasks by urgency bucket, preserving first-seen
// bucket order so output is stable for a given input.
func groupDueTasks(tasks []model.DueTask) []dueGroup {
	var groups []dueGroup
	index := make(map[bucket]int)

	for _, dt := range tasks {
		b := bucketFor(dt)
		i, ok := index[b]
		if !ok {
			index[b] = len(groups)
			groups = append(groups, dueGroup{Bucket: b})
			i = index[b]
		}
		groups[i].Tasks = append(groups[i].Tasks, dt)
	}
	return groups
}
