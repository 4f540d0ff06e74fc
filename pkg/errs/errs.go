// Package errs defines the engine's error taxonomy. Every failure carries a
// kind plus the entity kind and id it concerns, so callers can map errors to
// their own status codes and render precise messages.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error.
type Kind string

const (
	// KindNotFound means a referenced id does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict means a uniqueness or cycle invariant was violated.
	KindConflict Kind = "conflict"
	// KindInvalidState means the operation is illegal in the current state,
	// e.g. mutating a published version or moving the root page.
	KindInvalidState Kind = "invalid_state"
	// KindInvalidInput means the caller supplied malformed data.
	KindInvalidInput Kind = "invalid_input"
)

// Error is the engine's structured error.
type Error struct {
	Kind    Kind
	Entity  string // "page", "version", "component"
	ID      string // id of the entity concerned, may be empty
	Message string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Entity != "" && e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, msg)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s: %s", e.Entity, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: id, Message: "not found"}
}

// Conflict reports a uniqueness or cycle violation.
func Conflict(entity, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// InvalidState reports an operation illegal in the current state.
func InvalidState(entity, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// InvalidInput reports malformed caller input.
func InvalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an engine error.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the kind of err, or "" when err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found engine error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict engine error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsInvalidState reports whether err is an invalid-state engine error.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsInvalidInput reports whether err is an invalid-input engine error.
func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }
