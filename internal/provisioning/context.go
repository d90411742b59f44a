package provisioning

import (
	"context"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/platform/system"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Runner   system.Runner
	Observer Observer
	Timeouts *config.Timeouts
	Metrics  *Metrics
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, runner system.Runner, observer Observer) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Runner:   runner,
		Observer: observer,
		Timeouts: config.LoadTimeouts(),
		Metrics:  NewMetrics(),
	}
}
