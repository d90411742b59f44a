// Package install holds the idempotency guard and the connector install
// sequencer: a fixed-attempt retry loop around the vendor installer, fed a
// typed argument list built once per run.
package install
