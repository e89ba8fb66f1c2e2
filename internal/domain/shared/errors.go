// Package shared contains common domain types and errors that are used across
// all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// I/O errors
	ErrIO = errors.New("i/o failure")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "schedule", "roster", "calendar"
	Op      string // Operation that failed, e.g., "Build", "Enrich"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e.Domain == t.Domain && e.Op == t.Op && e.Message == t.Message
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Wrap returns a copy of a predefined error carrying err as its cause.
// The copy still matches e with errors.Is().
func (e *DomainError) Wrap(err error) *DomainError {
	return WrapError(e.Domain, e.Op, e.Kind, e.Message, err)
}

// Schedule domain errors
var (
	ErrStudentNotFound    = NewDomainError("schedule", "Find", ErrNotFound, "student not found")
	ErrInvalidRollNumber  = NewDomainError("schedule", "ParseRoll", ErrInvalidID, "roll number is not a decimal integer")
	ErrInvalidRollRange   = NewDomainError("schedule", "ParseRoll", ErrInvalidInput, "malformed roll number range")
	ErrSourceUnreadable   = NewDomainError("source", "Read", ErrIO, "cannot read source file")
	ErrArtifactUnreadable = NewDomainError("artifact", "Load", ErrIO, "cannot read schedule artifact")
	ErrArtifactCorrupt    = NewDomainError("artifact", "Load", ErrInvalidFormat, "schedule artifact is not valid JSON")
	ErrArtifactWrite      = NewDomainError("artifact", "Save", ErrIO, "cannot write schedule artifact")
)

// Cache errors
var (
	ErrCacheUnavailable = NewDomainError("cache", "Request", ErrServiceUnavailable, "cache is unavailable")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsIO checks if the error is an I/O failure.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
