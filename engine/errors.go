/*
errors.go - Centralized error types for the engine

PURPOSE:
  All error values in one place for consistency and discoverability. The
  calculation layer itself never returns errors - it trusts its inputs.
  These errors belong to the edges: stores and the API layer.

TWO ERROR PHILOSOPHIES:
  1. The calculation layer (bucketer, overlap, calculator) performs no
     input validation and silently produces wrong numbers on bad input.
  2. The validate package never returns Go errors at all - it accumulates
     findings into a ValidationResult and lets callers decide.

  The errors below cover everything in between: missing resources,
  malformed requests, storage failures.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrResourceNotFound is returned when a referenced resource doesn't exist.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidRange is returned when a query range has end before start.
	ErrInvalidRange = errors.New("invalid range: end not after start")

	// ErrInvalidGranularity is returned for unknown bucketing units.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrStoreFailed is returned when the backing store cannot be read.
	ErrStoreFailed = errors.New("store operation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeError provides details about a malformed query range.
type RangeError struct {
	Start TimePoint
	End   TimePoint
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: [%s, %s)", e.Start, e.End)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidGranularity)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}
