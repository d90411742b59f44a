// Package provisioning provides shared types, interfaces, and orchestration
// for bootstrapping a gateway connector host.
//
// # Subpackages
//
//   - secrets/ — credential resolution, token acquisition, validation
//   - network/ — kernel network tuning
//   - artifact/ — connector bundle download and extraction
//   - readiness/ — directory service and licensing readiness gates
//   - install/ — idempotency guard and the connector install sequencer
//
// # Core Types
//
// Context carries configuration, run state, the command runner, and the
// observer. Phase defines a provisioning step with Name() and Provision()
// methods. State accumulates results across phases (resolved secrets,
// connector token, install outcome).
package provisioning
