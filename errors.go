package longshort

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below, to be used with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrConflict         = errors.New("conflict")
	ErrQuoteUnavailable = errors.New("quote unavailable")
	ErrPersistence      = errors.New("persistence error")
)

// ValidationError reports a rejected input. The snapshot is never mutated when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports a rename onto an existing client.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string        { return e.Reason }
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// QuoteError reports that no price could be obtained for a symbol.
type QuoteError struct {
	Symbol string
	Cause  error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("no quote for %s: %v", e.Symbol, e.Cause)
}

func (e *QuoteError) Is(target error) bool { return target == ErrQuoteUnavailable }
func (e *QuoteError) Unwrap() error        { return e.Cause }

// PersistenceError reports that the snapshot could not be read or written. When a write fails the
// in-memory snapshot remains the working state.
type PersistenceError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cannot %s snapshot: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) Unwrap() error        { return e.Err }
