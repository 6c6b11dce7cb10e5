package domain

import (
	"errors"
	"fmt"
)

// Error kinds returned by the engine and the services built on it. Callers
// classify with errors.Is; details are attached by wrapping.
var (
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrValidationFailed  = errors.New("validation failed")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrConflict          = errors.New("conflict")
)

// ErrOutOfScope is a Forbidden raised because the target lies outside the
// caller's tenant scope, as opposed to the role lacking the capability.
// Read paths report it as ErrNotFound so existence does not leak.
var ErrOutOfScope = fmt.Errorf("%w: resource outside tenant scope", ErrForbidden)

// Validation wraps ErrValidationFailed with a field-level message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

// HideScope turns an out-of-scope denial into ErrNotFound. Every other error
// passes through untouched.
func HideScope(err error) error {
	if errors.Is(err, ErrOutOfScope) {
		return ErrNotFound
	}
	return err
}
