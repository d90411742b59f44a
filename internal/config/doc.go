// Package config loads and validates the provisioning configuration for a
// gateway connector host.
//
// Configuration comes from a YAML file (written by the launch template or
// cloud-init), an optional bootstrap.env dotenv overlay next to it, and
// environment variable overrides for secret values. Gate budgets and the
// install retry counter are tunable through GATEWAYBOOT_TIMEOUT_*
// environment variables.
package config
