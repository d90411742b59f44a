// Package testing provides test doubles and builders shared across unit
// tests.
//
// This package centralizes common testing patterns to avoid duplication:
//   - FakeRunner: scripted stand-in for external binaries with call and
//     silence-scope bookkeeping
//   - FakeDecrypter / FakeIssuer / FakeStore: capability doubles for the
//     key service, token helper, and blob storage
//   - NewConfig: a minimal valid provisioning configuration
package testing
