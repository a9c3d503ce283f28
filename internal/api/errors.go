package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/service/auth"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrBadCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, collab.ErrUnknownToken):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, domain.ErrFrozen),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case domain.IsInvalidAmount(err),
		domain.IsConfigurationError(err),
		errors.Is(err, domain.ErrInvalidScore),
		errors.Is(err, domain.ErrZeroWeight),
		errors.Is(err, domain.ErrMetadataEmpty),
		errors.Is(err, domain.ErrOwnerEmpty),
		errors.Is(err, collab.ErrInsufficientRewardBalance):
		return http.StatusBadRequest

	// Arithmetic rejection: the request was well-formed but the ledger
	// cannot represent the result.
	case errors.Is(err, domain.ErrArithmeticOverflow):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// error.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrBadCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Only the scholarship owner may do that"

	case errors.Is(err, store.ErrScholarshipNotFound),
		errors.Is(err, collab.ErrUnknownToken):
		return "Scholarship not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, domain.ErrFrozen):
		return "Scholarship is frozen"

	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.Is(err, domain.ErrZeroAmount):
		return "Amount must be greater than zero"

	case errors.Is(err, domain.ErrAmountExceedsBalance):
		return "Amount exceeds available balance"

	case errors.Is(err, domain.ErrInvalidScore):
		return "Score must be between 0 and 10"

	case errors.Is(err, domain.ErrZeroWeight):
		return "Rating weight must be greater than zero"

	case errors.Is(err, collab.ErrInsufficientRewardBalance):
		return "Insufficient reward balance for the requested weight"

	case errors.Is(err, domain.ErrFeeTooHigh):
		return "Fee rate exceeds the allowed maximum"

	case errors.Is(err, domain.ErrZeroAddress):
		return "Collaborator addresses must not be empty"

	case domain.IsConfigurationError(err):
		return "Invalid configuration"

	case errors.Is(err, domain.ErrMetadataEmpty):
		return "Metadata must not be empty"

	case errors.Is(err, domain.ErrOwnerEmpty):
		return "Owner must not be empty"

	case errors.Is(err, domain.ErrArithmeticOverflow):
		return "Amount too large to process"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'FundRequest.Amount' Error:Field validation for
		// 'Amount' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "lte":
		return "above the allowed maximum"
	default:
		return "validation failed"
	}
}
