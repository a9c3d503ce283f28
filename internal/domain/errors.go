package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application. Services and handlers
// match on these with errors.Is; persistence-level errors live in the store
// package.
var (
	// ErrInvalidAmount is the broad class for amount-precondition failures.
	// Callers can match on this or on one of the specific variants below.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrZeroAmount is returned when funding is attempted with a zero amount.
	// Withdrawals deliberately do NOT share this: a zero-amount withdrawal is
	// a successful no-op.
	ErrZeroAmount = fmt.Errorf("%w: amount must be greater than zero", ErrInvalidAmount)

	// ErrAmountExceedsBalance is returned when a withdrawal asks for more
	// than the scholarship currently holds.
	ErrAmountExceedsBalance = fmt.Errorf("%w: amount exceeds balance", ErrInvalidAmount)

	// ErrFrozen is returned when funding or withdrawal is attempted on a
	// frozen scholarship. Read operations are never blocked by freeze state.
	ErrFrozen = errors.New("scholarship is frozen")

	// ErrUnauthorized is returned when the caller lacks the required role,
	// e.g. a withdrawal by anyone other than the current owner of record.
	ErrUnauthorized = errors.New("unauthorized operation")

	// ErrInvalidScore is returned when a rating score is outside [0, 10].
	ErrInvalidScore = errors.New("score must be between 0 and 10")

	// ErrZeroWeight is returned when a rating carries no stake weight.
	ErrZeroWeight = errors.New("rating weight must be greater than zero")

	// ErrConfigurationInvalid is the broad class for configuration setter
	// failures. Configuration errors are rejected at the setter, never
	// deferred to usage time.
	ErrConfigurationInvalid = errors.New("invalid configuration")

	// ErrFeeTooHigh is returned when the protocol fee setter is given a rate
	// above the hard cap of 1000 basis points (10%).
	ErrFeeTooHigh = fmt.Errorf("%w: fee exceeds maximum of %d bps", ErrConfigurationInvalid, MaxFeeBps)

	// ErrZeroAddress is returned when a collaborator address is set to the
	// zero value.
	ErrZeroAddress = fmt.Errorf("%w: collaborator address cannot be empty", ErrConfigurationInvalid)

	// ErrArithmeticOverflow is returned when a monetary or counter update
	// would exceed the uint64 range. The enclosing operation is rejected in
	// full with no partial effect.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrMetadataEmpty is returned when a scholarship is created without
	// metadata. The content itself is opaque and never validated.
	ErrMetadataEmpty = errors.New("metadata cannot be empty")

	// ErrOwnerEmpty is returned when a scholarship owner reference is nil.
	ErrOwnerEmpty = errors.New("owner cannot be empty")
)

// IsInvalidAmount reports whether err is any of the amount-precondition
// failures.
func IsInvalidAmount(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsConfigurationError reports whether err is any configuration setter
// failure.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfigurationInvalid)
}
