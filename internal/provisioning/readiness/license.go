package readiness

import (
	"net/http"
	"strings"
	"time"

	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// License polls the local licensing service health endpoint until it
// answers 200. The phase only runs when a licensing server is configured;
// exhaustion is logged and the run continues.
type License struct {
	// Client overrides the HTTP client, for tests.
	Client *http.Client
}

// Name implements provisioning.Phase.
func (l *License) Name() string { return "readiness.license" }

// Provision implements provisioning.Phase.
func (l *License) Provision(ctx *provisioning.Context) error {
	base := ctx.Config.License.ServerURL
	if base == "" {
		ctx.Observer.Event(provisioning.Event{
			Type:    provisioning.EventPhaseSkipped,
			Phase:   l.Name(),
			Message: "no licensing server configured",
		})
		return nil
	}

	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	healthURL := strings.TrimSuffix(base, "/") + "/health"

	tm := ctx.Timeouts
	gate(ctx, l.Name(), "license-health", tm.LicenseBudget, tm.LicenseInterval, func() bool {
		resp, err := client.Get(healthURL)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	})

	return nil
}
