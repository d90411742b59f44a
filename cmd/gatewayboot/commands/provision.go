package commands

import (
	"github.com/spf13/cobra"

	"github.com/opsmode/gatewayboot/cmd/gatewayboot/handlers"
)

// Provision returns the command that runs the full bootstrap sequence.
//
// Optional flags:
//
//	--config, -c: Path to the bootstrap configuration YAML file
//	              (default: /etc/gatewayboot/bootstrap.yaml)
//
// Environment variables:
//
//	GATEWAYBOOT_REGISTRATION_CODE: overrides registration.code
//	GATEWAYBOOT_AD_PASSWORD:       overrides active_directory.password
//	GATEWAYBOOT_SERVICE_ACCOUNT:   overrides api.service_account
func Provision() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Provision this host as a gateway node",
		Long: `Provision this host as a remote-access gateway node.

This command resolves deployment credentials, acquires a one-time
registration token, applies network tuning, downloads the connector
bundle, waits for the directory deployment to become reachable, and runs
the connector installer. Re-running on an already provisioned host is a
no-op.

Examples:
  # Provision using the conventional config location
  gatewayboot provision

  # Provision using a specific config file
  gatewayboot provision -c /tmp/bootstrap.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "/etc/gatewayboot/bootstrap.yaml", "Path to configuration file")

	return cmd
}
