// Package pkgmgr wraps the host package manager. Readiness gates only
// consume exit status; output stays in the structured Result for the log.
package pkgmgr

import (
	"context"
	"os/exec"

	"github.com/opsmode/gatewayboot/internal/platform/system"
)

// Manager abstracts the host package manager for readiness gates.
type Manager interface {
	// RefreshIndex updates the package index.
	RefreshIndex(ctx context.Context) error

	// Install installs a package non-interactively.
	Install(ctx context.Context, pkg string) error

	// HaveTool reports whether a binary is already present in PATH.
	HaveTool(name string) bool
}

// Apt drives apt-get through the command runner.
type Apt struct {
	Runner system.Runner
}

// RefreshIndex implements Manager.
func (a *Apt) RefreshIndex(ctx context.Context) error {
	_, err := a.Runner.Run(ctx, system.Command{
		Path: "apt-get",
		Args: []string{"update"},
		Env:  []string{"DEBIAN_FRONTEND=noninteractive"},
	})
	return err
}

// Install implements Manager.
func (a *Apt) Install(ctx context.Context, pkg string) error {
	_, err := a.Runner.Run(ctx, system.Command{
		Path: "apt-get",
		Args: []string{"install", "-y", pkg},
		Env:  []string{"DEBIAN_FRONTEND=noninteractive"},
	})
	return err
}

// HaveTool implements Manager.
func (a *Apt) HaveTool(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
