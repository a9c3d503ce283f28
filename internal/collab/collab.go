// Package collab defines the external collaborators the ledger consumes:
// the scholarship token registry (identity and ownership of records), the
// fungible reward token, and the funding currency vault. The ledger treats
// all three as opaque services; the in-memory implementations here are the
// reference wiring and the test doubles.
package collab

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Collaborator errors.
var (
	// ErrUnknownToken is returned for an id the registry never minted.
	ErrUnknownToken = errors.New("unknown token id")

	// ErrInsufficientRewardBalance is returned when a holder's reward-unit
	// balance does not cover the requested stake weight.
	ErrInsufficientRewardBalance = errors.New("insufficient reward balance")

	// ErrInsufficientFunds is returned when the vault is asked to release
	// more than it holds.
	ErrInsufficientFunds = errors.New("insufficient vault funds")
)

// Registry is the owner-of-record collaborator: it mints the dense,
// sequential, 1-based scholarship ids and answers live ownership and
// metadata lookups. Ownership can change outside the ledger, which is why
// authorization re-reads OwnerOf at execution time.
type Registry interface {
	// MintToken mints a new token to the given owner with the opaque
	// metadata string and returns its id.
	MintToken(ctx context.Context, to uuid.UUID, metadata string) (uint64, error)

	// OwnerOf returns the current owner of the token.
	// Returns ErrUnknownToken for an unminted id.
	OwnerOf(ctx context.Context, id uint64) (uuid.UUID, error)

	// MetadataOf returns the token's metadata, unchanged from mint time.
	// Returns ErrUnknownToken for an unminted id.
	MetadataOf(ctx context.Context, id uint64) (string, error)
}

// RewardToken is the fungible-unit collaborator: it mints reward units to
// investors and answers balance queries used as rating stake weight.
type RewardToken interface {
	// Mint credits amount reward minor units to the holder.
	Mint(ctx context.Context, to uuid.UUID, amount uint64) error

	// BalanceOf returns the holder's current reward-unit balance.
	BalanceOf(ctx context.Context, holder uuid.UUID) (uint64, error)

	// RequireBalance returns ErrInsufficientRewardBalance when the holder's
	// balance does not cover amount. This is the sufficiency gate the
	// ledger's rating path relies on; the reputation engine itself does not
	// re-check.
	RequireBalance(ctx context.Context, holder uuid.UUID, amount uint64) error
}

// CurrencyVault is the value-transfer primitive that physically holds the
// funding currency. Deposit moves currency from an external party into the
// vault; Release pays currency out of the vault to an account identified by
// an opaque address string (an owner identity or the treasury address).
type CurrencyVault interface {
	// Deposit accepts amount from the named source into the vault.
	Deposit(ctx context.Context, from string, amount uint64) error

	// Release pays amount from the vault to the named account.
	// Returns ErrInsufficientFunds if the vault holds less than amount.
	Release(ctx context.Context, to string, amount uint64) error

	// BalanceOf returns the cumulative amount released to the account.
	BalanceOf(ctx context.Context, account string) (uint64, error)
}
