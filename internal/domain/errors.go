// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// Every *ValidationError matches it via errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidStatus is returned when a status literal is not recognized.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidPriority is returned when a priority literal is not recognized.
	ErrInvalidPriority = errors.New("invalid task priority")

	// ErrTitleLength is returned when a title is empty or too long.
	ErrTitleLength = errors.New("invalid title length")

	// ErrDescriptionLength is returned when a description is too long.
	ErrDescriptionLength = errors.New("description too long")

	// ErrDueDateNotInFuture is returned when a supplied due date is not after now.
	ErrDueDateNotInFuture = errors.New("due date must be in the future")

	// ErrTimestampOrder is returned when updated_at precedes created_at.
	ErrTimestampOrder = errors.New("updated_at precedes created_at")

	// ErrInvalidPage is returned for out-of-range pagination parameters.
	ErrInvalidPage = errors.New("invalid pagination parameter")
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	// Provided is the rejected raw value, when it is safe to echo back.
	Provided string `json:"provided,omitempty"`

	// ValidValues enumerates accepted literals for enum-like fields.
	ValidValues []string `json:"valid_values,omitempty"`

	// Err is the specific sentinel behind this field error.
	Err error `json:"-"`
}

// ValidationError aggregates one or more field-level validation failures.
// It is the error value returned by every validation function in this
// package; callers check for it with errors.As or errors.Is(err, ErrValidation).
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError holding a single field failure.
func NewValidationError(field, message string, err error) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message, err)
	return v
}

// NewEnumError creates a ValidationError for an unrecognized enum literal.
func NewEnumError(field, provided string, valid []string, err error) *ValidationError {
	return &ValidationError{Fields: []FieldError{{
		Field:       field,
		Message:     fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
		Provided:    provided,
		ValidValues: valid,
		Err:         err,
	}}}
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string, err error) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message, Err: err})
}

// Merge appends the field failures of other, if any.
func (e *ValidationError) Merge(other error) {
	var ve *ValidationError
	if errors.As(other, &ve) {
		e.Fields = append(e.Fields, ve.Fields...)
	}
}

// OrNil returns nil when no failures were recorded.
// It keeps a typed nil pointer from leaking into an error interface.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes ErrValidation and every field sentinel to errors.Is.
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation}
	for _, f := range e.Fields {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// FirstField returns the first recorded failure, or a zero FieldError.
func (e *ValidationError) FirstField() FieldError {
	if len(e.Fields) == 0 {
		return FieldError{}
	}
	return e.Fields[0]
}
