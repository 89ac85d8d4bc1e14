package circuitbreaker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTripsAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 3, Timeout: time.Minute})

	failing := func() error { return fmt.Errorf("boom") }
	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(failing))
	}
	assert.Equal(t, StateOpen, cb.State())

	// Open breaker short-circuits without invoking the function.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 1, Timeout: 10 * time.Millisecond})

	assert.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(Settings{Name: "test", MaxFailures: 2, Timeout: time.Minute})

	assert.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Error(t, cb.Execute(func() error { return fmt.Errorf("boom") }))
	assert.Equal(t, StateClosed, cb.State())
}
