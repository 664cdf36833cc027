package models

import "fmt"

// InputError signals malformed comparison input: an empty series or a
// non-positive starting benchmark price.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// NewInputError creates an InputError with a formatted reason.
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientDataError signals that too few aligned points were supplied
// to derive metrics. Returns require at least two points.
type InsufficientDataError struct {
	Points int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d aligned points, need at least 2", e.Points)
}

// DataUnavailableError signals that an upstream market-data fetch failed or
// returned no data for the requested range. It wraps the underlying cause
// when one exists and passes through the comparison pipeline unmodified.
type DataUnavailableError struct {
	Symbol string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data unavailable for %s: %s: %v", e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("data unavailable for %s: %s", e.Symbol, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
