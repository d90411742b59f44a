package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the budget, interval, and retry tuning for every bounded
// wait in the run. Values can be customized via environment variables.
type Timeouts struct {
	PackageBudget     time.Duration // Budget for package index / tool install gates
	PackageInterval   time.Duration // Interval between package gate probes
	DirectoryBudget   time.Duration // Budget for AD bind, DNS, and port gates
	DirectoryInterval time.Duration // Interval between directory gate probes
	LicenseBudget     time.Duration // Budget for the licensing health gate
	LicenseInterval   time.Duration // Interval between licensing probes
	InstallRetries    int           // Install attempts after the first, before giving up
	InstallRetryDelay time.Duration // Fixed delay between install attempts
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - GATEWAYBOOT_TIMEOUT_PACKAGE (default: 25s)
//   - GATEWAYBOOT_INTERVAL_PACKAGE (default: 5s)
//   - GATEWAYBOOT_TIMEOUT_DIRECTORY (default: 20m)
//   - GATEWAYBOOT_INTERVAL_DIRECTORY (default: 10s)
//   - GATEWAYBOOT_TIMEOUT_LICENSE (default: 20m)
//   - GATEWAYBOOT_INTERVAL_LICENSE (default: 10s)
//   - GATEWAYBOOT_INSTALL_RETRIES (default: 10)
//   - GATEWAYBOOT_INSTALL_RETRY_DELAY (default: 60s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PackageBudget:     parseDuration("GATEWAYBOOT_TIMEOUT_PACKAGE", 25*time.Second),
		PackageInterval:   parseDuration("GATEWAYBOOT_INTERVAL_PACKAGE", 5*time.Second),
		DirectoryBudget:   parseDuration("GATEWAYBOOT_TIMEOUT_DIRECTORY", 20*time.Minute),
		DirectoryInterval: parseDuration("GATEWAYBOOT_INTERVAL_DIRECTORY", 10*time.Second),
		LicenseBudget:     parseDuration("GATEWAYBOOT_TIMEOUT_LICENSE", 20*time.Minute),
		LicenseInterval:   parseDuration("GATEWAYBOOT_INTERVAL_LICENSE", 10*time.Second),
		InstallRetries:    parseInt("GATEWAYBOOT_INSTALL_RETRIES", 10),
		InstallRetryDelay: parseDuration("GATEWAYBOOT_INSTALL_RETRY_DELAY", 60*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
