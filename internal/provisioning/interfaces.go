package provisioning

import "errors"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// ErrSkipRemaining is returned by a phase to stop the pipeline
// successfully. The idempotency guard uses it when the connector is
// already installed.
var ErrSkipRemaining = errors.New("remaining phases skipped")
