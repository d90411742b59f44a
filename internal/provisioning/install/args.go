package install

import (
	"strconv"

	"github.com/opsmode/gatewayboot/internal/config"
	"github.com/opsmode/gatewayboot/internal/provisioning"
)

// BuildArgs assembles the installer argument list as discrete tokens.
// Branches are explicit: TLS mode (staged key and cert file paths) is
// mutually exclusive with insecure mode, and the licensing server argument
// appears only when one is configured. The list is built once per run and
// reused unchanged across install attempts.
func BuildArgs(cfg *config.Config, secrets provisioning.Secrets, token string) []string {
	args := []string{
		"--registration-code", secrets.RegistrationCode,
		"--token", token,
		"--ad-user", cfg.AD.Username,
		"--ad-password", secrets.ADPassword,
		"--domain", cfg.AD.Domain,
		"--domain-controller", cfg.AD.DomainController,
		"--sync-interval", strconv.Itoa(cfg.Connector.SyncIntervalMinutes),
	}

	if cfg.AD.DomainGroup != "" {
		args = append(args, "--domain-group", cfg.AD.DomainGroup)
	}

	if cfg.TLS.Enabled() {
		args = append(args, "--ssl-key", cfg.TLS.KeyFile, "--ssl-cert", cfg.TLS.CertFile)
	} else {
		args = append(args, "--insecure")
	}

	if cfg.License.ServerURL != "" {
		args = append(args, "--license-server", cfg.License.ServerURL)
	}

	return args
}
