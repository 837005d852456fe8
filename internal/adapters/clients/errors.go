// Package clients provides the instrumented HTTP client used by the
// downstream adapters.
package clients

import "errors"

// Transport-level failures. Adapters translate them into domain errors.
var (
	// ErrCircuitOpen is returned without contacting the downstream while the
	// circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last transport error once every attempt
	// failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
