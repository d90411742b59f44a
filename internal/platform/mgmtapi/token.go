// Package mgmtapi obtains the one-time connector registration token from
// the management API. The API is reached through a vendor helper binary;
// this package only consumes its exit status and stdout.
package mgmtapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsmode/gatewayboot/internal/platform/system"
)

// TokenIssuer produces the opaque connector registration token. The token
// is a secret and must never be written to any log sink.
type TokenIssuer interface {
	IssueToken(ctx context.Context) (string, error)
}

// HelperIssuer invokes the registration helper binary with the service
// account credential file and API base URL, and reads the token from its
// stdout.
type HelperIssuer struct {
	Runner         system.Runner
	HelperPath     string
	APIBaseURL     string
	CredentialFile string
}

// IssueToken implements TokenIssuer. A non-zero helper exit is returned as
// an error and is treated as non-transient by the caller; the helper's
// output is never included in the error.
func (h *HelperIssuer) IssueToken(ctx context.Context) (string, error) {
	restore := h.Runner.Silence()
	defer restore()

	res, err := h.Runner.Run(ctx, system.Command{
		Path: h.HelperPath,
		Args: []string{
			"issue-token",
			"--service-account", h.CredentialFile,
			"--api-url", h.APIBaseURL,
		},
	})
	if err != nil {
		return "", fmt.Errorf("registration helper failed: %w", err)
	}

	token := strings.TrimSpace(res.Output)
	if token == "" {
		return "", fmt.Errorf("registration helper returned an empty token")
	}
	return token, nil
}
