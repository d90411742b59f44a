package readiness

import (
	"github.com/opsmode/gatewayboot/internal/platform/directory"
	"github.com/opsmode/gatewayboot/internal/platform/pkgmgr"
	"github.com/opsmode/gatewayboot/internal/provisioning"
	"github.com/opsmode/gatewayboot/internal/util/netutil"
)

const (
	directoryToolPackage = "ldap-utils"
	directoryToolBinary  = "ldapsearch"

	// ldapsPort is the secure directory port the connector talks to.
	ldapsPort = "636"
)

// Directory waits for the Active Directory side of the deployment: the
// query tooling, the service account bind, domain DNS, and the LDAPS port.
// Gates run in order and every exhaustion lets the sequence proceed.
type Directory struct {
	Packages pkgmgr.Manager
	Dir      directory.Tool
}

// Name implements provisioning.Phase.
func (d *Directory) Name() string { return "readiness.directory" }

// Provision implements provisioning.Phase.
func (d *Directory) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	tm := ctx.Timeouts
	phase := d.Name()

	gate(ctx, phase, "package-index", tm.PackageBudget, tm.PackageInterval, func() bool {
		return d.Packages.RefreshIndex(ctx) == nil
	})

	gate(ctx, phase, "directory-tools", tm.PackageBudget, tm.PackageInterval, func() bool {
		if d.Packages.HaveTool(directoryToolBinary) {
			return true
		}
		return d.Packages.Install(ctx, directoryToolPackage) == nil
	})

	gate(ctx, phase, "ad-bind", tm.DirectoryBudget, tm.DirectoryInterval, func() bool {
		return d.Dir.Bind(ctx, directory.BindParams{
			DomainController: cfg.AD.DomainController,
			Username:         cfg.AD.Username,
			Domain:           cfg.AD.Domain,
			Password:         ctx.State.Secrets.ADPassword,
		}) == nil
	})

	gate(ctx, phase, "dns", tm.DirectoryBudget, tm.DirectoryInterval, func() bool {
		return netutil.Resolves(ctx, cfg.AD.Domain)
	})

	gate(ctx, phase, "ldaps-port", tm.DirectoryBudget, tm.DirectoryInterval, func() bool {
		return netutil.PortOpen(cfg.AD.DomainController, ldapsPort)
	})

	return nil
}
