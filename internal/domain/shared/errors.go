package shared

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a DomainError so callers can react without matching codes
type ErrorKind string

const (
	ErrorKindValidation   ErrorKind = "VALIDATION"
	ErrorKindNotFound     ErrorKind = "NOT_FOUND"
	ErrorKindInvalidState ErrorKind = "INVALID_STATE"
	ErrorKindConflict     ErrorKind = "CONFLICT"
	ErrorKindInternal     ErrorKind = "INTERNAL"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError of the same kind.
// A target without a code matches every error of its kind, so
// errors.Is(err, ErrNotFound) holds for any not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// NewDomainError creates a new domain error of the internal kind
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    ErrorKindInternal,
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports bad caller input
func NewValidationError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindValidation, Code: code, Message: message}
}

// NewNotFoundError reports a missing referenced entity
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindNotFound, Code: code, Message: message}
}

// NewInvalidStateError reports an operation attempted in the wrong state
func NewInvalidStateError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindInvalidState, Code: code, Message: message}
}

// NewConflictError reports a concurrent modification detected by storage
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: ErrorKindConflict, Code: code, Message: message}
}

// Kind sentinels, usable with errors.Is
var (
	ErrValidation          = &DomainError{Kind: ErrorKindValidation, Message: "Invalid input provided"}
	ErrNotFound            = &DomainError{Kind: ErrorKindNotFound, Message: "Resource not found"}
	ErrInvalidState        = &DomainError{Kind: ErrorKindInvalidState, Message: "Operation not allowed in current state"}
	ErrConcurrencyConflict = &DomainError{Kind: ErrorKindConflict, Message: "Resource was modified by another process"}
)

// KindOf returns the kind of err, or ErrorKindInternal when err is not a DomainError
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ErrorKindInternal
}

// NotFoundf builds a not-found error with a formatted message
func NotFoundf(code, format string, args ...any) *DomainError {
	return NewNotFoundError(code, fmt.Sprintf(format, args...))
}
