package retry

import (
	"context"
	"fmt"
	"time"
)

// Outcome reports how a Wait call ended.
type Outcome int

const (
	// Succeeded means the probe returned true before the budget ran out.
	Succeeded Outcome = iota
	// Exhausted means the budget ran out (or the context was cancelled)
	// without the probe ever returning true.
	Exhausted
)

// String returns the outcome name for log messages.
func (o Outcome) String() string {
	if o == Succeeded {
		return "succeeded"
	}
	return "exhausted"
}

// Policy describes one bounded wait. Each Wait call is an independent
// application of the policy; no state is shared between calls.
type Policy struct {
	// Budget is the total time allowed for failed probes.
	Budget time.Duration

	// Interval is the fixed sleep between probe attempts.
	Interval time.Duration

	// OnProgress, if set, is called after each failed probe with the
	// budget remaining before the next attempt.
	OnProgress func(remaining time.Duration)

	// OnExhausted, if set, is called once when the budget runs out.
	OnExhausted func()
}

// Wait polls probe at a fixed interval until it returns true or the budget
// is exhausted.
//
// The probe always runs first; exhaustion is only checked after a failed
// probe, and is declared once less than one whole Interval of budget
// remains. The budget is decremented by one whole Interval per failed
// probe, so with Budget < Interval the probe runs exactly once, and a
// Budget of k intervals gets k+1 attempts (the last one when the
// remainder reaches zero).
//
// Context cancellation interrupts the sleep and is reported as Exhausted;
// a probe call itself is not bounded, so a hanging probe stalls the budget
// accounting for its duration.
func Wait(ctx context.Context, p Policy, probe func() bool) Outcome {
	remaining := p.Budget
	for {
		if probe() {
			return Succeeded
		}

		if remaining < p.Interval {
			if p.OnExhausted != nil {
				p.OnExhausted()
			}
			return Exhausted
		}

		if p.OnProgress != nil {
			p.OnProgress(remaining)
		}

		select {
		case <-ctx.Done():
			if p.OnExhausted != nil {
				p.OnExhausted()
			}
			return Exhausted
		case <-time.After(p.Interval):
		}
		remaining -= p.Interval
	}
}

// Attempts runs op until it returns nil, retrying up to retries additional
// times with a constant delay between attempts. The total number of
// invocations is therefore retries+1. The last error is returned when all
// attempts fail. OnRetry, if set, is called before each sleep with the
// number of retries still remaining.
func Attempts(ctx context.Context, retries int, delay time.Duration, op func() error, onRetry func(remaining int)) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= retries {
			return fmt.Errorf("giving up after %d attempts: %w", attempt+1, lastErr)
		}

		if onRetry != nil {
			onRetry(retries - attempt)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("cancelled after %d attempts: %w", attempt+1, ctx.Err())
		case <-time.After(delay):
		}
	}
}
