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

// PostgresScholarshipStore implements the store.ScholarshipStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScholarshipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScholarshipStore creates a new PostgreSQL implementation of the
// ScholarshipStore interface. If logger is nil, the default logger is used.
func NewPostgresScholarshipStore(db store.DBTX, logger *slog.Logger) *PostgresScholarshipStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresScholarshipStore{
		db:     db,
		logger: logger.With(slog.String("component", "scholarship_store")),
	}
}

// Ensure PostgresScholarshipStore implements store.ScholarshipStore.
var _ store.ScholarshipStore = (*PostgresScholarshipStore)(nil)

// WithTx implements store.ScholarshipStore.WithTx.
func (s *PostgresScholarshipStore) WithTx(tx *sql.Tx) store.ScholarshipStore {
	return &PostgresScholarshipStore{db: tx, logger: s.logger}
}

// Create implements store.ScholarshipStore.Create.
func (s *PostgresScholarshipStore) Create(ctx context.Context, sch *domain.Scholarship) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sch.Validate(); err != nil {
		log.Warn("scholarship validation failed during create",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", sch.ID))
		return err
	}

	query := `
		INSERT INTO scholarships
			(id, owner, metadata, balance, total_funded, total_withdrawn,
			 frozen, frozen_override, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		sch.ID,
		sch.Owner,
		sch.Metadata,
		formatAmount(sch.Balance),
		formatAmount(sch.TotalFunded),
		formatAmount(sch.TotalWithdrawn),
		sch.Frozen,
		sch.FrozenOverride,
		sch.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create scholarship",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", sch.ID))
		return store.NewStoreError("scholarship", "create", MapError(err))
	}

	log.Info("scholarship created",
		slog.Uint64("scholarship_id", sch.ID),
		slog.String("owner", sch.Owner.String()))
	return nil
}

const scholarshipColumns = `
	id, owner, metadata, balance::text, total_funded::text,
	total_withdrawn::text, frozen, frozen_override, created_at
`

// GetByID implements store.ScholarshipStore.GetByID.
func (s *PostgresScholarshipStore) GetByID(ctx context.Context, id uint64) (*domain.Scholarship, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE id = $1`, id)
	return s.scanScholarship(ctx, row)
}

// GetForUpdate implements store.ScholarshipStore.GetForUpdate. The FOR
// UPDATE lock is the per-scholarship critical section; it is released when
// the enclosing transaction ends.
func (s *PostgresScholarshipStore) GetForUpdate(ctx context.Context, id uint64) (*domain.Scholarship, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+scholarshipColumns+` FROM scholarships WHERE id = $1 FOR UPDATE`, id)
	return s.scanScholarship(ctx, row)
}

func (s *PostgresScholarshipStore) scanScholarship(ctx context.Context, row *sql.Row) (*domain.Scholarship, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sch domain.Scholarship
	var balance, funded, withdrawn string
	err := row.Scan(
		&sch.ID,
		&sch.Owner,
		&sch.Metadata,
		&balance,
		&funded,
		&withdrawn,
		&sch.Frozen,
		&sch.FrozenOverride,
		&sch.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScholarshipNotFound
		}
		log.Error("failed to scan scholarship", slog.String("error", err.Error()))
		return nil, store.NewStoreError("scholarship", "get", MapError(err))
	}

	if sch.Balance, err = parseAmount(balance); err != nil {
		return nil, store.NewStoreError("scholarship", "get", err)
	}
	if sch.TotalFunded, err = parseAmount(funded); err != nil {
		return nil, store.NewStoreError("scholarship", "get", err)
	}
	if sch.TotalWithdrawn, err = parseAmount(withdrawn); err != nil {
		return nil, store.NewStoreError("scholarship", "get", err)
	}
	return &sch, nil
}

// UpdateFunding implements store.ScholarshipStore.UpdateFunding.
func (s *PostgresScholarshipStore) UpdateFunding(ctx context.Context, sch *domain.Scholarship) error {
	return s.updateAmounts(ctx, "update_funding", sch)
}

// UpdateWithdrawal implements store.ScholarshipStore.UpdateWithdrawal.
func (s *PostgresScholarshipStore) UpdateWithdrawal(ctx context.Context, sch *domain.Scholarship) error {
	return s.updateAmounts(ctx, "update_withdrawal", sch)
}

// updateAmounts persists all three monetary fields together so the schema's
// balance = total_funded - total_withdrawn check sees a consistent row.
func (s *PostgresScholarshipStore) updateAmounts(ctx context.Context, op string, sch *domain.Scholarship) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `
		UPDATE scholarships
		SET balance = $2::numeric, total_funded = $3::numeric,
		    total_withdrawn = $4::numeric
		WHERE id = $1
	`,
		sch.ID,
		formatAmount(sch.Balance),
		formatAmount(sch.TotalFunded),
		formatAmount(sch.TotalWithdrawn),
	)
	if err != nil {
		log.Error("failed to update scholarship amounts",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", sch.ID))
		return store.NewStoreError("scholarship", op, MapError(err))
	}
	return s.requireOneRow(res, op)
}

// UpdateFreeze implements store.ScholarshipStore.UpdateFreeze.
func (s *PostgresScholarshipStore) UpdateFreeze(ctx context.Context, sch *domain.Scholarship) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `
		UPDATE scholarships SET frozen = $2, frozen_override = $3 WHERE id = $1
	`, sch.ID, sch.Frozen, sch.FrozenOverride)
	if err != nil {
		log.Error("failed to update freeze state",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", sch.ID))
		return store.NewStoreError("scholarship", "update_freeze", MapError(err))
	}
	return s.requireOneRow(res, "update_freeze")
}

// ListIDs implements store.ScholarshipStore.ListIDs.
func (s *PostgresScholarshipStore) ListIDs(ctx context.Context) ([]uint64, error) {
	return s.listIDs(ctx, `SELECT id FROM scholarships ORDER BY id`)
}

// ListIDsByOwner implements store.ScholarshipStore.ListIDsByOwner.
func (s *PostgresScholarshipStore) ListIDsByOwner(ctx context.Context, owner uuid.UUID) ([]uint64, error) {
	return s.listIDs(ctx, `SELECT id FROM scholarships WHERE owner = $1 ORDER BY id`, owner)
}

func (s *PostgresScholarshipStore) listIDs(ctx context.Context, query string, args ...any) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("scholarship", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("scholarship", "list", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("scholarship", "list", err)
	}
	return ids, nil
}

func (s *PostgresScholarshipStore) requireOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("scholarship", op, err)
	}
	if n == 0 {
		return store.ErrScholarshipNotFound
	}
	return nil
}
