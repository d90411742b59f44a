// Package retry provides bounded-retry primitives for waiting on external
// preconditions.
//
// [Wait] polls a boolean probe at a fixed interval until it succeeds or a
// time budget is exhausted. [Attempts] retries a fallible operation a fixed
// number of times with a constant delay. Readiness gates are built from
// Wait; the connector install loop is built from Attempts.
package retry
