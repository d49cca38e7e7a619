package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the HTTP boundary and for callers that need
// to branch on failure mode.
type Kind string

const (
	// KindValidation means the input was rejected before any mutation.
	KindValidation Kind = "validation_error"

	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = "not_found"

	// KindNoActiveTrip means the operation requires an active trip and none is set.
	KindNoActiveTrip Kind = "no_active_trip"

	// KindConflict means the operation would violate a uniqueness or guard rule.
	KindConflict Kind = "conflict"

	// KindDatabase means the storage layer failed; the logical transaction was
	// rolled back.
	KindDatabase Kind = "database_error"

	// KindNotifier means the receipt notifier failed. Non-fatal: callers log it
	// and never propagate it as an operation failure.
	KindNotifier Kind = "notifier_error"
)

// Error is the error type returned by the ledger and lifecycle layers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NoActiveTrip returns a KindNoActiveTrip error.
func NoActiveTrip(message string) *Error {
	return &Error{Kind: KindNoActiveTrip, Message: message}
}

// Conflict returns a KindConflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Database wraps a storage-layer failure.
func Database(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindDatabase, Message: fmt.Sprintf(format, args...), Err: err}
}

// Notifier wraps a receipt-notifier failure.
func Notifier(err error, message string) *Error {
	return &Error{Kind: KindNotifier, Message: message, Err: err}
}

// KindOf returns the Kind of err, or KindDatabase for untyped errors so that
// unexpected failures surface as storage-layer problems rather than user faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindDatabase
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsConflict reports whether err is a KindConflict error.
func IsConflict(err error) bool {
	return IsKind(err, KindConflict)
}
