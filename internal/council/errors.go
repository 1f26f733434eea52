package council

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is a programmer error: Speak before Initialize.
// It is never swallowed.
var ErrNotInitialized = errors.New("agent not initialized")

// ErrVerdictUnavailable marks a verdict attempt whose synthesis call
// degraded to the unreachable placeholder. The debate is not concluded
// and GenerateVerdict may be called again.
var ErrVerdictUnavailable = errors.New("verdict generation failed, retry")

// ErrSessionNotFound is returned for operations on unknown session IDs.
var ErrSessionNotFound = errors.New("session not found")

// InitializationError is fatal to the whole session: a debate cannot
// proceed with an uninitialized seat.
type InitializationError struct {
	SeatID string
	Err    error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initializing seat %s: %v", e.SeatID, e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }
