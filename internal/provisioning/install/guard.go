package install

import (
	"fmt"
	"os"

	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// Guard short-circuits the run when a prior install left the connector
// binary in place. Re-running the bootstrap on an already provisioned host
// is "already done", not an error.
type Guard struct{}

// Name implements provisioning.Phase.
func (g *Guard) Name() string { return "install.guard" }

// Provision implements provisioning.Phase.
func (g *Guard) Provision(ctx *provisioning.Context) error {
	path := ctx.Config.Connector.BinaryPath
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	ctx.State.AlreadyInstalled = true
	ctx.Observer.Printf("connector already installed at %s", path)
	return fmt.Errorf("connector present: %w", provisioning.ErrSkipRemaining)
}
