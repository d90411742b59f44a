// Package readiness implements best-effort waits on external
// preconditions: the directory service the connector joins and the
// optional local licensing service.
//
// A gate that runs out its budget is logged and counted, never fatal: the
// install step is expected to surface real unreadiness on its own.
package readiness

import (
	"time"

	"github.com/opsmode/gatewayboot/internal/provisioning"
	"github.com/opsmode/gatewayboot/internal/util/retry"
)

// gate runs one bounded wait, wiring progress, exhaustion, and metrics.
func gate(ctx *provisioning.Context, phase, name string, budget, interval time.Duration, probe func() bool) retry.Outcome {
	outcome := retry.Wait(ctx, retry.Policy{
		Budget:   budget,
		Interval: interval,
		OnProgress: func(remaining time.Duration) {
			ctx.Observer.Event(provisioning.Event{
				Type:    provisioning.EventGateWaiting,
				Phase:   phase,
				Message: "not ready yet",
				Fields:  map[string]string{"gate": name, "remaining": remaining.String()},
			})
		},
		OnExhausted: func() {
			ctx.Metrics.GateExhausted(name)
			provisioning.LogGateExhausted(ctx.Observer, phase, name)
		},
	}, func() bool {
		ctx.Metrics.GateAttempt(name)
		return probe()
	})

	if outcome == retry.Succeeded {
		ctx.Observer.Event(provisioning.Event{
			Type:    provisioning.EventGateReady,
			Phase:   phase,
			Message: "ready",
			Fields:  map[string]string{"gate": name},
		})
	}
	return outcome
}
