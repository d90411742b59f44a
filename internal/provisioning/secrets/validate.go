package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// ErrMissingCredentials marks a run whose resolved secrets are incomplete.
var ErrMissingCredentials = errors.New("missing required credentials")

// Validate checks that every value the install step needs was actually
// resolved. All missing fields are collected before failing so the error
// names the complete shortfall; field names only, never values.
type Validate struct{}

// Name implements provisioning.Phase.
func (v *Validate) Name() string { return "secrets.validate" }

// Provision implements provisioning.Phase.
func (v *Validate) Provision(ctx *provisioning.Context) error {
	var missing []string
	if ctx.State.Secrets.RegistrationCode == "" {
		missing = append(missing, "registration code")
	}
	if ctx.State.Secrets.ADPassword == "" {
		missing = append(missing, "AD password")
	}
	if ctx.State.Token == "" {
		missing = append(missing, "connector token")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}
