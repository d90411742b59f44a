package install

import (
	"errors"
	"fmt"
	"os"

	"github.com/opsmode/gatewayboot/internal/platform/blob"
	"github.com/opsmode/gatewayboot/internal/platform/system"
	"github.com/opsmode/gatewayboot/internal/provisioning"
	"github.com/opsmode/gatewayboot/internal/util/retry"
)

// State tracks the install step's progress.
type State int

const (
	// Pending means the install step has not started.
	Pending State = iota
	// Attempting means the retry loop is running.
	Attempting
	// Installed means the installer exited 0.
	Installed
	// Failed means the attempt counter was exhausted.
	Failed
)

// String returns the state name for log messages.
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Attempting:
		return "attempting"
	case Installed:
		return "installed"
	default:
		return "failed"
	}
}

// ErrExhausted marks an install whose attempt counter ran out. It is one
// of the run's fatal outcomes.
var ErrExhausted = errors.New("connector install attempts exhausted")

// serviceName is the systemd unit the installer registers; used by the
// final verification command.
const serviceName = "gateway-connector"

// Sequencer installs the connector. Unlike readiness gates it retries on a
// fixed attempt counter, not a time budget, and exhaustion aborts the run.
// The argument list and token are built once; every attempt is identical.
type Sequencer struct {
	// Blobs stages the TLS key and certificate; required only in TLS
	// mode.
	Blobs blob.Store

	state State
}

// Name implements provisioning.Phase.
func (s *Sequencer) Name() string { return "install.connector" }

// State reports the sequencer's current state.
func (s *Sequencer) State() State { return s.state }

// Provision implements provisioning.Phase.
func (s *Sequencer) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	if cfg.TLS.Enabled() {
		if s.Blobs == nil {
			return fmt.Errorf("TLS mode configured but no blob store is available")
		}
		if err := s.Blobs.FetchToFile(ctx, cfg.TLS.Bucket, cfg.TLS.KeyObject, cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("failed to stage TLS key: %w", err)
		}
		if err := s.Blobs.FetchToFile(ctx, cfg.TLS.Bucket, cfg.TLS.CertObject, cfg.TLS.CertFile); err != nil {
			return fmt.Errorf("failed to stage TLS certificate: %w", err)
		}
	}

	args := BuildArgs(cfg, ctx.State.Secrets, ctx.State.Token)

	installLog, err := os.OpenFile(cfg.Paths.InstallLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open install log: %w", err)
	}
	defer func() { _ = installLog.Close() }()

	// The argument list carries the registration code, token, and AD
	// password; echo stays off for the whole loop.
	restore := ctx.Runner.Silence()
	defer restore()

	s.state = Attempting
	err = retry.Attempts(ctx, ctx.Timeouts.InstallRetries, ctx.Timeouts.InstallRetryDelay, func() error {
		ctx.State.InstallAttempts++
		_, runErr := ctx.Runner.Run(ctx, system.Command{
			Path:   cfg.Connector.InstallerPath,
			Args:   args,
			Stream: installLog,
		})
		return runErr
	}, func(remaining int) {
		ctx.Observer.Printf("connector install failed, %d retries remaining", remaining)
	})
	if err != nil {
		s.state = Failed
		return fmt.Errorf("%w: %v", ErrExhausted, err)
	}

	s.state = Installed
	ctx.State.Installed = true
	ctx.Observer.Printf("connector installed after %d attempt(s)", ctx.State.InstallAttempts)

	// Verification is advisory: the unit may still be settling.
	if _, err := ctx.Runner.Run(ctx, system.Command{Path: "systemctl", Args: []string{"is-active", serviceName}}); err != nil {
		ctx.Observer.Printf("warning: connector service not active yet: %v", err)
	}
	return nil
}
