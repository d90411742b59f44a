package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWait_SucceedsImmediately(t *testing.T) {
	t.Parallel()

	attempts := 0
	outcome := Wait(context.Background(), Policy{Budget: time.Second, Interval: time.Second}, func() bool {
		attempts++
		return true
	})

	assert.Equal(t, Succeeded, outcome)
	assert.Equal(t, 1, attempts)
}

func TestWait_ZeroBudget_ProbesExactlyOnce(t *testing.T) {
	t.Parallel()

	attempts := 0
	exhausted := false
	outcome := Wait(context.Background(), Policy{
		Budget:      0,
		Interval:    time.Second,
		OnExhausted: func() { exhausted = true },
	}, func() bool {
		attempts++
		return false
	})

	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, 1, attempts)
	assert.True(t, exhausted)
}

func TestWait_SucceedsOnKthAttempt(t *testing.T) {
	t.Parallel()

	const k = 3
	attempts := 0
	outcome := Wait(context.Background(), Policy{
		Budget:   100 * time.Millisecond,
		Interval: 10 * time.Millisecond,
	}, func() bool {
		attempts++
		return attempts == k
	})

	assert.Equal(t, Succeeded, outcome)
	assert.Equal(t, k, attempts)
}

func TestWait_ExhaustionAfterBudget(t *testing.T) {
	t.Parallel()

	attempts := 0
	var progress []time.Duration
	outcome := Wait(context.Background(), Policy{
		Budget:   30 * time.Millisecond,
		Interval: 10 * time.Millisecond,
		OnProgress: func(remaining time.Duration) {
			progress = append(progress, remaining)
		},
	}, func() bool {
		attempts++
		return false
	})

	assert.Equal(t, Exhausted, outcome)
	// Budget of 3 intervals allows 3 sleeps: probe, sleep x3, final probe.
	assert.Equal(t, 4, attempts)
	require.Len(t, progress, 3)
	assert.Equal(t, 30*time.Millisecond, progress[0])
	assert.Equal(t, 10*time.Millisecond, progress[2])
}

func TestWait_UnevenBudgetStopsShortOfPartialInterval(t *testing.T) {
	t.Parallel()

	attempts := 0
	outcome := Wait(context.Background(), Policy{
		Budget:   25 * time.Millisecond,
		Interval: 10 * time.Millisecond,
	}, func() bool {
		attempts++
		return false
	})

	assert.Equal(t, Exhausted, outcome)
	// 25ms budget decrements 10ms per failed probe: after the second sleep
	// only 5ms remains, less than one interval, so no fourth attempt.
	assert.Equal(t, 3, attempts)
}

func TestWait_PositiveBudgetSmallerThanInterval_ProbesExactlyOnce(t *testing.T) {
	t.Parallel()

	attempts := 0
	outcome := Wait(context.Background(), Policy{
		Budget:   5 * time.Millisecond,
		Interval: 10 * time.Millisecond,
	}, func() bool {
		attempts++
		return false
	})

	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, 1, attempts, "budget smaller than one interval must probe exactly once")
}

func TestWait_ContextCancellationInterruptsSleep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	exhausted := false
	outcome := Wait(ctx, Policy{
		Budget:      time.Minute,
		Interval:    time.Minute,
		OnExhausted: func() { exhausted = true },
	}, func() bool {
		attempts++
		return false
	})

	assert.Equal(t, Exhausted, outcome)
	assert.Equal(t, 1, attempts)
	assert.True(t, exhausted)
}

func TestAttempts_FirstTrySucceeds(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Attempts(context.Background(), 10, time.Millisecond, func() error {
		calls++
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAttempts_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Attempts(context.Background(), 10, time.Millisecond, func() error {
		calls++
		if calls < 4 {
			return errors.New("not yet")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestAttempts_ExhaustsCounter(t *testing.T) {
	t.Parallel()

	const retries = 3
	calls := 0
	var remaining []int
	err := Attempts(context.Background(), retries, time.Millisecond, func() error {
		calls++
		return errors.New("still broken")
	}, func(r int) {
		remaining = append(remaining, r)
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "still broken")
	assert.Equal(t, retries+1, calls)
	assert.Equal(t, []int{3, 2, 1}, remaining)
}

func TestAttempts_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Attempts(ctx, 5, time.Millisecond, func() error {
		calls++
		return errors.New("fail")
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
