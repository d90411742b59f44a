package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opsmode/gatewayboot/internal/platform/kms"
	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// Resolver produces the plaintext secret values for the run. With no KMS
// key configured the configured values pass through verbatim; otherwise
// each value is decrypted independently. A decrypt failure aborts the
// whole run.
type Resolver struct {
	// Decrypter is required only in decrypt mode (kms.key_id set).
	Decrypter kms.Decrypter
}

// Name implements provisioning.Phase.
func (r *Resolver) Name() string { return "secrets.resolve" }

// Provision implements provisioning.Phase. The command-echo silence scope
// covers both modes and every exit path.
func (r *Resolver) Provision(ctx *provisioning.Context) error {
	restore := ctx.Runner.Silence()
	defer restore()

	cfg := ctx.Config

	if cfg.KMS.KeyID == "" {
		ctx.State.Secrets = provisioning.Secrets{
			RegistrationCode: cfg.Registration.Code,
			ADPassword:       cfg.AD.Password,
		}
		return writeCredentialFile(cfg.API.CredentialFile, []byte(cfg.API.ServiceAccount))
	}

	if r.Decrypter == nil {
		return fmt.Errorf("kms.key_id is set but no decrypter is available")
	}

	code, err := r.Decrypter.Decrypt(ctx, cfg.Registration.Code)
	if err != nil {
		return fmt.Errorf("failed to decrypt registration code: %w", err)
	}

	password, err := r.Decrypter.Decrypt(ctx, cfg.AD.Password)
	if err != nil {
		return fmt.Errorf("failed to decrypt AD password: %w", err)
	}

	doc, err := r.Decrypter.Decrypt(ctx, cfg.API.ServiceAccount)
	if err != nil {
		return fmt.Errorf("failed to decrypt service account credentials: %w", err)
	}

	if err := writeCredentialFile(cfg.API.CredentialFile, []byte(doc)); err != nil {
		return err
	}

	ctx.State.Secrets = provisioning.Secrets{
		RegistrationCode: code,
		ADPassword:       password,
	}
	return nil
}

// writeCredentialFile places the service-account credential document where
// the token helper expects it, replacing whatever a previous run left.
func writeCredentialFile(path string, doc []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	return nil
}
