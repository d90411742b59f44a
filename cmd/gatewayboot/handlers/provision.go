// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/platform/blob"
	"github.com/opsmode/gatewayboot/internal/platform/directory"
	"github.com/opsmode/gatewayboot/internal/platform/kms"
	"github.com/opsmode/gatewayboot/internal/platform/mgmtapi"
	"github.com/opsmode/gatewayboot/internal/platform/pkgmgr"
	"github.com/opsmode/gatewayboot/internal/platform/system"
	"github.com/opsmode/gatewayboot/internal/provisioning"
	"github.com/opsmode/gatewayboot/internal/provisioning/artifact"
	"github.com/opsmode/gatewayboot/internal/provisioning/install"
	"github.com/opsmode/gatewayboot/internal/provisioning/network"
	"github.com/opsmode/gatewayboot/internal/provisioning/readiness"
	"github.com/opsmode/gatewayboot/internal/provisioning/secrets"
	"github.com/opsmode/gatewayboot/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the bootstrap configuration.
	loadConfig = config.Load

	// newRunner creates the command runner used by every phase.
	newRunner = func(trace func(format string, v ...any)) system.Runner {
		return system.NewExecRunner(trace)
	}

	// newDecrypter creates the key service client; only called in
	// decrypt mode.
	newDecrypter = func(ctx context.Context, region, keyID string) (kms.Decrypter, error) {
		return kms.NewClient(ctx, region, keyID)
	}

	// newBlobStore creates the blob storage client; only called in TLS
	// mode.
	newBlobStore = func(ctx context.Context, region string) (blob.Store, error) {
		return blob.NewClient(ctx, region)
	}

	// newTokenIssuer creates the registration token source.
	newTokenIssuer = func(runner system.Runner, cfg *config.Config) mgmtapi.TokenIssuer {
		return &mgmtapi.HelperIssuer{
			Runner:         runner,
			HelperPath:     cfg.API.TokenHelper,
			APIBaseURL:     cfg.API.URL,
			CredentialFile: cfg.API.CredentialFile,
		}
	}

	// checkHostTools runs the prerequisites check.
	checkHostTools = prerequisites.Check

	// stderrIsTerminal reports whether stderr is attached to a terminal.
	stderrIsTerminal = func() bool {
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
)

// Provision runs the full bootstrap sequence for this host.
//
// The sequence is ordered and stateful: credential resolution, token
// acquisition, and validation run first so every later step works with
// known-good inputs; the idempotency guard then short-circuits hosts that
// are already provisioned; network tuning, bundle download, and the
// directory readiness gates are best-effort; the install loop at the end
// is the only retried-and-fatal step.
//
// Metrics describing the run are flushed to the configured textfile on
// every exit path, including failures.
func Provision(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sink, closeSink := openLogSink(cfg.Paths.LogFile)
	defer closeSink()

	observer := provisioning.NewLogObserver(sink)

	if err := checkPrerequisites(cfg, observer); err != nil {
		return err
	}

	runner := newRunner(observer.Printf)
	pctx := provisioning.NewContext(ctx, cfg, runner, observer)

	phases, err := buildPhases(pctx, cfg, runner)
	if err != nil {
		return err
	}

	runErr := provisioning.RunPhases(pctx, phases)

	pctx.Metrics.SetSuccess(runErr == nil)
	if err := pctx.Metrics.WriteTextfile(cfg.Paths.MetricsTextfile); err != nil {
		observer.Printf("warning: failed to write metrics textfile: %v", err)
	}

	return runErr
}

// buildPhases assembles the ordered phase list and the platform clients
// the phases depend on. Cloud clients are only constructed for the modes
// that need them, so a host with verbatim secrets and no TLS material
// never touches the cloud SDK.
func buildPhases(ctx context.Context, cfg *config.Config, runner system.Runner) ([]provisioning.Phase, error) {
	var decrypter kms.Decrypter
	if cfg.KMS.KeyID != "" {
		d, err := newDecrypter(ctx, cfg.KMS.Region, cfg.KMS.KeyID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize key service client: %w", err)
		}
		decrypter = d
	}

	var store blob.Store
	if cfg.TLS.Enabled() {
		s, err := newBlobStore(ctx, cfg.TLS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize blob storage client: %w", err)
		}
		store = s
	}

	return []provisioning.Phase{
		&secrets.Resolver{Decrypter: decrypter},
		&secrets.TokenAcquire{Issuer: newTokenIssuer(runner, cfg)},
		&secrets.Validate{},
		&install.Guard{},
		&network.Tune{},
		&artifact.Download{},
		&readiness.Directory{
			Packages: &pkgmgr.Apt{Runner: runner},
			Dir:      &directory.LDAPSearch{Runner: runner},
		},
		&readiness.License{},
		&install.Sequencer{Blobs: store},
	}, nil
}

// openLogSink opens the append-only bootstrap log, teeing to stderr when
// run interactively. A log file that cannot be opened degrades to stderr
// alone; provisioning proceeds either way.
func openLogSink(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stderr, func() {}
	}

	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot open log file %s: %v\n", path, err)
		return os.Stderr, func() {}
	}

	closeFn := func() { _ = f.Close() }
	if stderrIsTerminal() {
		return io.MultiWriter(f, os.Stderr), closeFn
	}
	return f, closeFn
}

// checkPrerequisites verifies the host tools the run shells out to.
func checkPrerequisites(cfg *config.Config, observer provisioning.Observer) error {
	results := checkHostTools(prerequisites.HostTools(cfg.API.TokenHelper))

	for _, r := range results.Results {
		if r.Found {
			observer.Printf("found %s at %s", r.Tool.Name, r.Path)
		}
	}

	if err := results.Error(); err != nil {
		return fmt.Errorf("prerequisites check failed: %w", err)
	}
	return nil
}
