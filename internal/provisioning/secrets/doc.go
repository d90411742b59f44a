// Package secrets resolves the run's secret material: the connector
// registration code, the AD service-account password, the service-account
// credential document, and the one-time registration token.
//
// Every phase in this package runs inside a command-echo silence scope,
// and no resolved value is ever placed in an error message or log event.
package secrets
