// Package main is the entry point for the gatewayboot CLI.
//
// gatewayboot turns a freshly provisioned virtual machine into a working
// remote-access gateway node: it resolves deployment credentials, acquires
// a one-time registration token, tunes the host network, stages the
// connector bundle, waits for the directory side of the deployment, and
// drives the connector installer to completion.
//
// For detailed usage information, run:
//
//	gatewayboot --help
package main

import (
	"fmt"
	"os"

	"github.com/opsmode/gatewayboot/cmd/gatewayboot/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
