package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep-api/internal/model"
)

func TestScanDisabledSettingsIsNoOp(t *testing.T) {
	settings := allThresholdsEnabled()
	settings.Enabled = false

	env := newTestEnv(settings)
	env.addTask("Oil Change", dueInDays(0))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanAbsentSettingsIsNoOp(t *testing.T) {
	env := newTestEnv(nil)
	env.addTask("Oil Change", dueInDays(0))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanMatchesExactThreshold(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Blade Sharpening", dueInDays(7))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.ThresholdOneWeek, due[0].ThresholdType)
	assert.Equal(t, 7, due[0].DaysUntilDue)
	assert.False(t, due[0].IsOverdue)
	assert.Equal(t, "Blade Sharpening", due[0].TaskType.Name)
}

func TestScanDueTodayMatchesOnlyDueDate(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Oil Change", dueInDays(0))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.ThresholdDueDate, due[0].ThresholdType)
}

func TestScanOverdueTask(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Filter Swap", dueInDays(-4))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.ThresholdOverdueDaily, due[0].ThresholdType)
	assert.Equal(t, -4, due[0].DaysUntilDue)
	assert.True(t, due[0].IsOverdue)
}

func TestScanSkipsTaskWithoutDueDate(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Usage Only", nil)

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanSkipsNonPendingTasks(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	task := env.addTask("Oil Change", dueInDays(0))
	task.Status = model.TaskStatusCompleted

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanSkipsMissingReferences(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	good := env.addTask("Oil Change", dueInDays(0))

	// A task whose equipment no longer resolves is skipped, not fatal.
	orphan := env.addTask("Orphan", dueInDays(0))
	orphan.EquipmentID = uuid.New()

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, good.ID, due[0].Task.ID)
}

func TestScanSuppressesLedgeredThreshold(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	task := env.addTask("Oil Change", dueInDays(7))

	// First two scans agree while nothing has been recorded.
	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)

	due, err = env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)

	// After the ledger records today's notification the task disappears.
	dateKey := midnight(testNow).Format("2006-01-02")
	require.NoError(t, env.ledger.LedgerAppend(context.Background(), task.ID, model.ThresholdOneWeek, dateKey))

	due, err = env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanLedgerEntryForOtherDayDoesNotSuppress(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	task := env.addTask("Filter Swap", dueInDays(-2))

	// Yesterday's overdue notification does not block today's.
	yesterday := midnight(testNow).AddDate(0, 0, -1).Format("2006-01-02")
	require.NoError(t, env.ledger.LedgerAppend(context.Background(), task.ID, model.ThresholdOverdueDaily, yesterday))

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.ThresholdOverdueDaily, due[0].ThresholdType)
}

func TestScanSuppressesOnLedgerReadError(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Oil Change", dueInDays(0))
	env.ledger.checkErr = assert.AnError

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestScanNeverWritesLedger(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Oil Change", dueInDays(0))

	_, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, env.ledger.ledger)
}

func TestScanMultipleTasks(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Oil Change", dueInDays(0))
	env.addTask("Blade Sharpening", dueInDays(7))
	env.addTask("Filter Swap", dueInDays(-1))
	env.addTask("Nothing Yet", dueInDays(10)) // no threshold at 10 days

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, due, 3)
}

func TestScanWithNonUTCServerClock(t *testing.T) {
	env := newTestEnv(allThresholdsEnabled())
	env.addTask("Oil Change", dueInDays(0))

	// 8pm Mar 14 EST is 1am Mar 15 UTC: on the UTC calendar the task is
	// already due today.
	est := time.FixedZone("EST", -5*60*60)
	env.svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 20, 0, 0, 0, est)
	}

	due, err := env.svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, model.ThresholdDueDate, due[0].ThresholdType)
	assert.Zero(t, due[0].DaysUntilDue)
}
