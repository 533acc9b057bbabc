package store

import (
	"errors"
	"fmt"
)

// Store errors. Implementations wrap driver errors in one of these so callers
// never depend on a particular database.
var (
	// ErrNotFound means no row matched the lookup.
	ErrNotFound = errors.New("entity not found")

	// ErrTaskNotFound narrows ErrNotFound to tasks.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)

	// ErrDuplicate means a unique key is already taken.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity means the row broke a table constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed means a transaction could not begin or commit.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrUnavailable means the database refused or dropped the connection.
	ErrUnavailable = errors.New("store unavailable")
)

// IsNotFoundError reports whether err is any not-found condition.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnavailableError reports whether err means the database could not be reached.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// StoreError adds the entity and operation to a store failure.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
