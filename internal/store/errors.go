package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate of
	// a unique entity (e.g. a second scholarship with the same id).
	ErrDuplicate = errors.New("entity already exists")

	// ErrTransactionFailed is returned when a transaction fails to commit or
	// an operation inside it fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrScholarshipNotFound indicates the requested scholarship id is
	// unknown.
	ErrScholarshipNotFound = fmt.Errorf("%w: scholarship", ErrNotFound)

	// ErrContributionNotFound indicates the investor has never contributed
	// to the scholarship.
	ErrContributionNotFound = fmt.Errorf("%w: contribution", ErrNotFound)

	// ErrConfigNotFound indicates the protocol configuration row has not
	// been seeded.
	ErrConfigNotFound = fmt.Errorf("%w: protocol config", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError carries entity/operation context for store failures while still
// unwrapping to the original error for errors.Is matching.
type StoreError struct {
	Entity    string
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s operation on %s failed: %v", e.Operation, e.Entity, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError with the given context.
func NewStoreError(entity, operation string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Err: err}
}
