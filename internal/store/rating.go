package store

import (
	"context"
	"database/sql"

	"github.com/scholarfund/scholarfund-api/internal/domain"
)

// RankedScholarship pairs a scholarship id with its weighted average score
// for the top-rated ranking.
type RankedScholarship struct {
	ScholarshipID uint64
	Average       uint64
}

// RatingStore defines the interface for the aggregate-only rating state.
// There is exactly one aggregate row per scholarship, created alongside the
// scholarship record and mutated in place, never reset.
type RatingStore interface {
	// Create seeds the empty aggregate for a new scholarship.
	Create(ctx context.Context, agg *domain.RatingAggregate) error

	// Get retrieves the aggregate.
	// Returns ErrScholarshipNotFound if the scholarship is unknown.
	Get(ctx context.Context, scholarshipID uint64) (*domain.RatingAggregate, error)

	// GetForUpdate retrieves the aggregate and locks its row until the
	// enclosing transaction ends.
	GetForUpdate(ctx context.Context, scholarshipID uint64) (*domain.RatingAggregate, error)

	// Update persists the running sums after a rating is folded in.
	Update(ctx context.Context, agg *domain.RatingAggregate) error

	// TopRated returns up to limit scholarships ordered by descending
	// weighted average, ties broken by ascending id. Unrated scholarships
	// participate with average 0.
	TopRated(ctx context.Context, limit int) ([]RankedScholarship, error)

	// WithTx returns a RatingStore bound to the given transaction.
	WithTx(tx *sql.Tx) RatingStore
}

// ConfigStore defines the interface for the single protocol configuration
// row.
type ConfigStore interface {
	// Get retrieves the configuration.
	// Returns ErrConfigNotFound if the row has not been seeded.
	Get(ctx context.Context) (*domain.ProtocolConfig, error)

	// Put inserts or replaces the configuration row.
	Put(ctx context.Context, cfg *domain.ProtocolConfig) error

	// WithTx returns a ConfigStore bound to the given transaction.
	WithTx(tx *sql.Tx) ConfigStore
}
