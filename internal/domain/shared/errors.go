package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the domain and application layers
// matches exactly one of these through errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal failure")
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause, so errors.Is matches either.
func (e *DomainError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func NewDomainError(kind error, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func NewInvalidInputError(message string) *DomainError {
	return NewDomainError(ErrInvalidInput, message)
}

func NewConflictError(message string) *DomainError {
	return NewDomainError(ErrConflict, message)
}

func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrNotFound, message)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(ErrUnauthorized, message)
}

func NewForbiddenError(message string) *DomainError {
	return NewDomainError(ErrForbidden, message)
}

// NewInternalError wraps an unexpected collaborator failure.
func NewInternalError(message string, cause error) *DomainError {
	return &DomainError{Kind: ErrInternal, Message: message, Cause: cause}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports validation failures as invalid input.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsClientError reports whether err was caused by the caller rather than by
// a failing collaborator.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}
