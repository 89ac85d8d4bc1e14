package scheduler

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep-api/internal/model"
	"github.com/upkeephq/upkeep-api/pkg/logger"
)

var testLogger = logger.FromZerolog(zerolog.New(os.Stderr).Level(zerolog.Disabled))

type fakeChecker struct {
	mu      sync.Mutex
	runs    int
	block   chan struct{}
	lastErr error
}

func (f *fakeChecker) RunCheck(ctx context.Context) (*model.CheckResult, error) {
	f.mu.Lock()
	f.runs++
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	return &model.CheckResult{}, f.lastErr
}

func (f *fakeChecker) runCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs
}

func TestStartStopStateMachine(t *testing.T) {
	s := New("0 9 * * *", &fakeChecker{}, testLogger)

	assert.False(t, s.Status().Running)

	require.NoError(t, s.Start())
	assert.True(t, s.Status().Running)
	assert.Equal(t, "0 9 * * *", s.Status().Schedule)

	// Start while running is a no-op, not an error.
	require.NoError(t, s.Start())
	assert.True(t, s.Status().Running)

	s.Stop()
	assert.False(t, s.Status().Running)

	// Stop while stopped is a no-op.
	s.Stop()
	assert.False(t, s.Status().Running)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New("not a schedule", &fakeChecker{}, testLogger)
	assert.Error(t, s.Start())
	assert.False(t, s.Status().Running)
}

func TestRunNowInvokesPipeline(t *testing.T) {
	checker := &fakeChecker{}
	s := New("0 9 * * *", checker, testLogger)

	result, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, 1, checker.runCount())
}

func TestRunNowWorksWithoutStart(t *testing.T) {
	// The manual trigger does not require the schedule to be active.
	checker := &fakeChecker{}
	s := New("0 9 * * *", checker, testLogger)

	_, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, checker.runCount())
}

func TestOverlappingRunIsRejected(t *testing.T) {
	checker := &fakeChecker{block: make(chan struct{})}
	s := New("0 9 * * *", checker, testLogger)

	done := make(chan error, 1)
	go func() {
		_, err := s.RunNow(context.Background())
		done <- err
	}()

	// Wait for the first run to hold the run lock.
	require.Eventually(t, func() bool {
		return checker.runCount() == 1
	}, time.Second, 5*time.Millisecond)

	_, err := s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrCheckInFlight)

	close(checker.block)
	require.NoError(t, <-done)

	// With the first run finished, new runs proceed.
	_, err = s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, checker.runCount())
}
