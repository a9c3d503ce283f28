package service

import (
	"errors"
	"fmt"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// ServiceError wraps unexpected failures with the operation that produced
// them. Domain and store sentinel errors pass through unwrapped so callers
// can match on them with errors.Is.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "fund", "withdraw").
	Operation string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// wrapErr returns sentinel errors unchanged and wraps everything else with
// the operation context.
func wrapErr(operation string, err error) error {
	if err == nil {
		return nil
	}
	if isSentinel(err) {
		return err
	}
	return &ServiceError{Operation: operation, Err: err}
}

func isSentinel(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		domain.IsInvalidAmount(err) ||
		domain.IsConfigurationError(err) ||
		errors.Is(err, domain.ErrFrozen) ||
		errors.Is(err, domain.ErrUnauthorized) ||
		errors.Is(err, domain.ErrInvalidScore) ||
		errors.Is(err, domain.ErrZeroWeight) ||
		errors.Is(err, domain.ErrArithmeticOverflow) ||
		errors.Is(err, domain.ErrMetadataEmpty)
}
