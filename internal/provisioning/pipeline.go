package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially.
//
// A phase returning ErrSkipRemaining stops the pipeline successfully; any
// other error aborts the run. Gate exhaustion inside a phase is not an
// error at this layer: phases that wait on external preconditions log the
// exhaustion and return nil, on the theory that the install step will fail
// loudly if the precondition truly is not met.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		LogPhaseStart(ctx.Observer, name)

		err := phase.Provision(ctx)
		ctx.Metrics.ObservePhase(phase.Name(), time.Since(phaseStart), err)

		if errors.Is(err, ErrSkipRemaining) {
			ctx.Observer.Printf("[%s] nothing left to do, stopping early", name)
			return nil
		}
		if err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
