// Package directory wraps the LDAP query tool used to probe the Active
// Directory service account. Only the tool's exit status is consumed.
package directory

import (
	"context"

	"github.com/opsmode/gatewayboot/internal/platform/system"
)

// BindParams describe one service-account bind probe.
type BindParams struct {
	DomainController string
	Username         string
	Domain           string
	Password         string
}

// Tool abstracts the directory query utility for readiness gates.
type Tool interface {
	// Bind performs a simple bind as the service account and reports
	// whether the directory accepted it.
	Bind(ctx context.Context, p BindParams) error
}

// LDAPSearch probes the directory with a base-scope search over a simple
// bind. The command line carries the password, so the whole call runs
// inside a silence scope.
type LDAPSearch struct {
	Runner system.Runner

	// Binary overrides the ldapsearch binary name; empty means
	// "ldapsearch".
	Binary string
}

// Bind implements Tool.
func (l *LDAPSearch) Bind(ctx context.Context, p BindParams) error {
	restore := l.Runner.Silence()
	defer restore()

	binary := l.Binary
	if binary == "" {
		binary = "ldapsearch"
	}

	_, err := l.Runner.Run(ctx, system.Command{
		Path: binary,
		Args: []string{
			"-H", "ldap://" + p.DomainController,
			"-x",
			"-D", p.Username + "@" + p.Domain,
			"-w", p.Password,
			"-b", "",
			"-s", "base",
		},
	})
	return err
}
