package secrets

import (
	"errors"
	"fmt"

	"github.com/opsmode/gatewayboot/internal/platform/mgmtapi"
	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// ErrTokenAcquisition marks a registration helper failure. It is fatal and
// never retried: a failing token fetch means bad credentials or a
// misconfigured API endpoint, not a transient network condition.
var ErrTokenAcquisition = errors.New("token acquisition failed")

// TokenAcquire obtains the one-time connector registration token.
type TokenAcquire struct {
	Issuer mgmtapi.TokenIssuer
}

// Name implements provisioning.Phase.
func (t *TokenAcquire) Name() string { return "secrets.token" }

// Provision implements provisioning.Phase.
func (t *TokenAcquire) Provision(ctx *provisioning.Context) error {
	token, err := t.Issuer.IssueToken(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenAcquisition, err)
	}
	ctx.State.Token = token
	return nil
}
