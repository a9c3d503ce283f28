package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
)

// ScholarshipStore defines the interface for scholarship record persistence.
//
// GetForUpdate is the entry point of every mutating operation: inside a
// transaction it locks the scholarship row for the duration, making the
// transaction the per-scholarship critical section. Calling it outside a
// transaction still returns the row but provides no exclusion.
type ScholarshipStore interface {
	// Create inserts a new scholarship record with the id already assigned
	// by the token registry. Returns ErrDuplicate if the id exists.
	Create(ctx context.Context, s *domain.Scholarship) error

	// GetByID retrieves a scholarship by id.
	// Returns ErrScholarshipNotFound if the id is unknown.
	GetByID(ctx context.Context, id uint64) (*domain.Scholarship, error)

	// GetForUpdate retrieves a scholarship and locks its row until the
	// enclosing transaction ends.
	// Returns ErrScholarshipNotFound if the id is unknown.
	GetForUpdate(ctx context.Context, id uint64) (*domain.Scholarship, error)

	// UpdateFunding persists the balance and cumulative funded total.
	UpdateFunding(ctx context.Context, s *domain.Scholarship) error

	// UpdateWithdrawal persists the balance and cumulative withdrawn total.
	UpdateWithdrawal(ctx context.Context, s *domain.Scholarship) error

	// UpdateFreeze persists the frozen flag and the override marker.
	UpdateFreeze(ctx context.Context, s *domain.Scholarship) error

	// ListIDs returns every scholarship id in creation order.
	ListIDs(ctx context.Context) ([]uint64, error)

	// ListIDsByOwner returns the ids minted to the given owner, in creation
	// order. Ownership here is the minted-to snapshot; live ownership checks
	// go through the registry.
	ListIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uint64, error)

	// WithTx returns a ScholarshipStore bound to the given transaction.
	WithTx(tx *sql.Tx) ScholarshipStore
}
