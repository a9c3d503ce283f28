package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// PostgresContributionStore implements the store.ContributionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresContributionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContributionStore creates a new PostgreSQL implementation of
// the ContributionStore interface.
func NewPostgresContributionStore(db store.DBTX, logger *slog.Logger) *PostgresContributionStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresContributionStore{
		db:     db,
		logger: logger.With(slog.String("component", "contribution_store")),
	}
}

var _ store.ContributionStore = (*PostgresContributionStore)(nil)

// WithTx implements store.ContributionStore.WithTx.
func (s *PostgresContributionStore) WithTx(tx *sql.Tx) store.ContributionStore {
	return &PostgresContributionStore{db: tx, logger: s.logger}
}

// Get implements store.ContributionStore.Get.
func (s *PostgresContributionStore) Get(ctx context.Context, scholarshipID uint64, investor uuid.UUID) (*domain.Contribution, error) {
	var c domain.Contribution
	var amount string
	err := s.db.QueryRowContext(ctx, `
		SELECT scholarship_id, investor, amount::text, position, first_at
		FROM contributions
		WHERE scholarship_id = $1 AND investor = $2
	`, scholarshipID, investor).Scan(&c.ScholarshipID, &c.Investor, &amount, &c.Position, &c.FirstAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrContributionNotFound
		}
		return nil, store.NewStoreError("contribution", "get", MapError(err))
	}
	if c.Amount, err = parseAmount(amount); err != nil {
		return nil, store.NewStoreError("contribution", "get", err)
	}
	return &c, nil
}

// Upsert implements store.ContributionStore.Upsert. The amount written is
// the new cumulative total, already computed with checked arithmetic by the
// caller.
func (s *PostgresContributionStore) Upsert(ctx context.Context, c *domain.Contribution) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contributions (scholarship_id, investor, amount, position, first_at)
		VALUES ($1, $2, $3::numeric, $4, $5)
		ON CONFLICT (scholarship_id, investor)
		DO UPDATE SET amount = EXCLUDED.amount
	`, c.ScholarshipID, c.Investor, formatAmount(c.Amount), c.Position, c.FirstAt)
	if err != nil {
		log.Error("failed to upsert contribution",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", c.ScholarshipID),
			slog.String("investor", c.Investor.String()))
		return store.NewStoreError("contribution", "upsert", MapError(err))
	}
	return nil
}

// ListInvestors implements store.ContributionStore.ListInvestors.
func (s *PostgresContributionStore) ListInvestors(ctx context.Context, scholarshipID uint64) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT investor FROM contributions
		WHERE scholarship_id = $1
		ORDER BY position
	`, scholarshipID)
	if err != nil {
		return nil, store.NewStoreError("contribution", "list_investors", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	investors := make([]uuid.UUID, 0)
	for rows.Next() {
		var investor uuid.UUID
		if err := rows.Scan(&investor); err != nil {
			return nil, store.NewStoreError("contribution", "list_investors", err)
		}
		investors = append(investors, investor)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("contribution", "list_investors", err)
	}
	return investors, nil
}

// CountInvestors implements store.ContributionStore.CountInvestors.
func (s *PostgresContributionStore) CountInvestors(ctx context.Context, scholarshipID uint64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contributions WHERE scholarship_id = $1`,
		scholarshipID).Scan(&count)
	if err != nil {
		return 0, store.NewStoreError("contribution", "count", MapError(err))
	}
	return count, nil
}

// NextPosition implements store.ContributionStore.NextPosition.
func (s *PostgresContributionStore) NextPosition(ctx context.Context, scholarshipID uint64) (int, error) {
	return s.CountInvestors(ctx, scholarshipID)
}

// SumContributions implements store.ContributionStore.SumContributions.
func (s *PostgresContributionStore) SumContributions(ctx context.Context, scholarshipID uint64) (uint64, error) {
	var sum string
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM contributions WHERE scholarship_id = $1
	`, scholarshipID).Scan(&sum)
	if err != nil {
		return 0, store.NewStoreError("contribution", "sum", MapError(err))
	}
	return parseAmount(sum)
}
