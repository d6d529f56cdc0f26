package hbench

import (
	"errors"
	"fmt"
)

// ErrTimeout is returned by deadline-governed calls when the wrapped
// operation does not finish inside its wall-clock budget. The result of the
// abandoned operation is discarded, never partially returned.
var ErrTimeout = errors.New("hbench: deadline exceeded")

// ErrRateLimited is returned by governed entry points when the sliding-window
// rate limiter rejects the call. The limiter state itself is not corrupted by
// a rejection; retry after TimeUntilNextAllowed.
var ErrRateLimited = errors.New("hbench: rate limit exceeded")

// ValidationError reports malformed or out-of-range input. It is always
// raised before any computation or state mutation takes place.
type ValidationError struct {
	Field  string // Which input was rejected
	Reason string // Why it was rejected
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("hbench: invalid %s: %s", e.Field, e.Reason)
}

// ComputationError wraps an unexpected internal fault during metrics or
// simulation work. It is distinguishable from ValidationError via errors.As:
// validation means the caller passed bad input, computation means the engine
// hit a malformed state it could not process.
type ComputationError struct {
	Op  string // Operation that failed, e.g. "compute-metrics"
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("hbench: %s failed: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }

// invalidf builds a ValidationError with a formatted reason.
func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// computef builds a ComputationError from a formatted message.
func computef(op, format string, args ...any) error {
	return &ComputationError{Op: op, Err: fmt.Errorf(format, args...)}
}
