package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep-api/internal/model"
)

func dueTask(days int) model.DueTask {
	return model.DueTask{
		DaysUntilDue: days,
		IsOverdue:    days < 0,
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name string
		days int
		want bucket
	}{
		{"overdue", -3, bucketOverdue},
		{"due today", 0, bucketToday},
		{"due tomorrow", 1, bucketThisWeek},
		{"due in seven days", 7, bucketThisWeek},
		{"due in eight days", 8, bucketFuture},
		{"due in a month", 30, bucketFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bucketFor(dueTask(tt.days)))
		})
	}
}

func TestGroupDueTasksPreservesFirstSeenOrder(t *testing.T) {
	tasks := []model.DueTask{
		dueTask(3),  // thisweek
		dueTask(-1), // overdue
		dueTask(0),  // today
		dueTask(5),  // thisweek
		dueTask(-9), // overdue
	}

	groups := groupDueTasks(tasks)
	require.Len(t, groups, 3)
	assert.Equal(t, bucketThisWeek, groups[0].Bucket)
	assert.Equal(t, bucketOverdue, groups[1].Bucket)
	assert.Equal(t, bucketToday, groups[2].Bucket)
	assert.Len(t, groups[0].Tasks, 2)
	assert.Len(t, groups[1].Tasks, 2)
	assert.Len(t, groups[2].Tasks, 1)
}

func TestGroupDueTasksEmpty(t *testing.T) {
	assert.Empty(t, groupDueTasks(nil))
}
