// Package apperr defines the error kinds shared by the marketplace services.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can map it without string matching.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindAuthorization Kind = "AUTHORIZATION"
	KindParseDegraded Kind = "PARSE_DEGRADED"
	KindConflict      Kind = "CONFLICT"
	KindInternal      Kind = "INTERNAL"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Entity  string // team, milestone, engagement, ...
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Entity != "" {
		prefix = fmt.Sprintf("%s %s", prefix, e.Entity)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Validation reports malformed or contradictory input.
func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Entity: field, Message: fmt.Sprintf(format, args...)}
}

// Invalid wraps a struct-tag or schema validation failure.
func Invalid(entity string, cause error) *Error {
	return &Error{Kind: KindValidation, Entity: entity, Message: "invalid input", Cause: cause}
}

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// Unauthorized reports that the caller lacks a required relationship.
func Unauthorized(entity, message string) *Error {
	return &Error{Kind: KindAuthorization, Entity: entity, Message: message}
}

// ParseDegraded reports stored data that could not be decoded and was skipped.
func ParseDegraded(field string, cause error) *Error {
	return &Error{Kind: KindParseDegraded, Entity: field, Message: "malformed stored value skipped", Cause: cause}
}

// Conflict reports an operation refused by the current state of an entity.
func Conflict(entity, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
