// Package network applies kernel buffer and queue tuning for the gateway
// connector's UDP-heavy session traffic.
package network

import (
	"os"
	"strings"

	"github.com/opsmode/gatewayboot/internal/platform/system"
	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// settings is the fixed parameter set written to the sysctl drop-in.
var settings = []string{
	"net.core.rmem_max=160000000",
	"net.core.rmem_default=160000000",
	"net.core.wmem_max=160000000",
	"net.core.wmem_default=160000000",
	"net.ipv4.udp_mem=120000 240000 600000",
	"net.core.netdev_max_backlog=2000",
}

// Tune writes the tuning drop-in and applies it, but only when the file
// does not already exist. The check is on existence, not content: a
// drop-in left by an earlier release is never overwritten, even when the
// desired settings have since changed. Tuning problems degrade the run
// rather than aborting it.
type Tune struct{}

// Name implements provisioning.Phase.
func (t *Tune) Name() string { return "network.tune" }

// Provision implements provisioning.Phase.
func (t *Tune) Provision(ctx *provisioning.Context) error {
	path := ctx.Config.Paths.SysctlFile

	if _, err := os.Stat(path); err == nil {
		ctx.Observer.Printf("network tuning already present at %s, leaving as is", path)
		return nil
	}

	content := strings.Join(settings, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		ctx.Observer.Printf("warning: could not write %s: %v", path, err)
		return nil
	}

	if _, err := ctx.Runner.Run(ctx, system.Command{Path: "sysctl", Args: []string{"-p", path}}); err != nil {
		ctx.Observer.Printf("warning: applying network tuning failed: %v", err)
		return nil
	}

	ctx.Observer.Printf("applied %d network tuning parameters", len(settings))
	return nil
}
