package store

import (
	"context"
	"database/sql"

	"github.com/scholarfund/scholarfund-api/internal/domain"
)

// WithdrawalStore defines the interface for the append-only per-scholarship
// withdrawal log. Entries are never updated or deleted; the record's Index is
// its 0-based position and is shared by the legacy and detailed read views.
type WithdrawalStore interface {
	// Append adds a record at the next index. Must run inside the
	// withdrawal transaction.
	Append(ctx context.Context, rec *domain.WithdrawalRecord) error

	// List returns the scholarship's withdrawal log in index order.
	List(ctx context.Context, scholarshipID uint64) ([]domain.WithdrawalRecord, error)

	// GetByIndex returns the record at the given index.
	// Returns ErrNotFound for an out-of-range index; the fee-by-index query
	// maps that to 0 rather than an error.
	GetByIndex(ctx context.Context, scholarshipID uint64, index int) (*domain.WithdrawalRecord, error)

	// Count returns the current log length, i.e. the index the next record
	// will take. Must run inside the withdrawal transaction when used for
	// an append.
	Count(ctx context.Context, scholarshipID uint64) (int, error)

	// WithTx returns a WithdrawalStore bound to the given transaction.
	WithTx(tx *sql.Tx) WithdrawalStore
}
