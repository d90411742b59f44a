// Package system wraps invocation of external binaries (package manager,
// directory tools, sysctl, the connector installer) behind a Runner
// interface so provisioning phases can be tested with scripted doubles.
//
// The exec-backed runner echoes every command line to its trace sink
// before running it. Phases that pass secret material on a command line
// wrap the call in Silence(), a scoped guard that suppresses the echo and
// restores it on every exit path.
package system
