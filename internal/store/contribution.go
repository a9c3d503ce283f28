package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
)

// ContributionStore defines the interface for per-investor cumulative
// contribution persistence. Records are created on an investor's first
// contribution and only ever incremented, never deleted.
type ContributionStore interface {
	// Get retrieves the cumulative contribution of one investor to one
	// scholarship. Returns ErrContributionNotFound if the investor has
	// never contributed.
	Get(ctx context.Context, scholarshipID uint64, investor uuid.UUID) (*domain.Contribution, error)

	// Upsert inserts the record on first contribution (assigning the next
	// insertion position) or replaces the cumulative amount on subsequent
	// ones. Must run inside the funding transaction.
	Upsert(ctx context.Context, c *domain.Contribution) error

	// ListInvestors returns the scholarship's investors in insertion order.
	// Each investor appears exactly once.
	ListInvestors(ctx context.Context, scholarshipID uint64) ([]uuid.UUID, error)

	// CountInvestors returns the number of distinct investors.
	CountInvestors(ctx context.Context, scholarshipID uint64) (int, error)

	// NextPosition returns the insertion index for a new investor, i.e. the
	// current investor count. Must run inside the funding transaction.
	NextPosition(ctx context.Context, scholarshipID uint64) (int, error)

	// SumContributions returns the sum of all cumulative contributions to
	// the scholarship; equal to the scholarship's TotalFunded by invariant.
	SumContributions(ctx context.Context, scholarshipID uint64) (uint64, error)

	// WithTx returns a ContributionStore bound to the given transaction.
	WithTx(tx *sql.Tx) ContributionStore
}
