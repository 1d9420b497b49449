package threadcell

import (
	"errors"
	"fmt"
)

// ErrConflictingDefault indicates a call supplied both a concrete default
// value and a default factory. The two are mutually exclusive by contract.
var ErrConflictingDefault = errors.New("default value and default factory are mutually exclusive")

// ConfigurationError reports invalid arguments to a cell or registry
// operation. It is a programming error at the call site: never retried,
// never recovered locally.
type ConfigurationError struct {
	// Op is the operation that rejected its arguments
	// (e.g. "new", "init", "set default").
	Op string
	// Err is the underlying validation error.
	Err error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("threadcell: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// newConflictError builds the ConfigurationError for a value+factory clash.
func newConflictError(op string) *ConfigurationError {
	return &ConfigurationError{Op: op, Err: ErrConflictingDefault}
}
