package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryPolicyAttempts(t *testing.T) {
	assert.Equal(t, 1, NoRetry().attempts())
	assert.Equal(t, 1, RetryPolicy{}.attempts())
	assert.Equal(t, 1, RetryPolicy{MaxAttempts: -3}.attempts())
	assert.Equal(t, 5, ConstantBackoff(5, time.Second).attempts())
}

func TestRetryPolicyBackoff(t *testing.T) {
	assert.Equal(t, time.Duration(0), NoRetry().backoff(1))

	p := ConstantBackoff(4, 250*time.Millisecond)
	for attempt := 1; attempt <= 3; attempt++ {
		assert.Equal(t, 250*time.Millisecond, p.backoff(attempt))
	}
}

func TestExponentialBackoff(t *testing.T) {
	p := ExponentialBackoff(10, time.Second, 8*time.Second)

	assert.Equal(t, time.Second, p.backoff(1))
	assert.Equal(t, 2*time.Second, p.backoff(2))
	assert.Equal(t, 4*time.Second, p.backoff(3))
	assert.Equal(t, 8*time.Second, p.backoff(4))

	// the pause caps out at the ceiling, overflow included
	assert.Equal(t, 8*time.Second, p.backoff(5))
	assert.Equal(t, 8*time.Second, p.backoff(63))
	assert.Equal(t, 8*time.Second, p.backoff(100))
}

func TestRealClockSleep(t *testing.T) {
	clock := RealClock()
	ctx := context.Background()

	require.NoError(t, clock.Sleep(ctx, time.Millisecond))
	require.NoError(t, clock.Sleep(ctx, 0))
	require.NoError(t, clock.Sleep(ctx, -time.Second))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, clock.Sleep(cancelled, time.Minute))
}
