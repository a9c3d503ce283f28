package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// PostgresWithdrawalStore implements the store.WithdrawalStore interface
// using a PostgreSQL database as the storage backend. The log is append-only
// by construction: there are no update or delete statements in this file.
type PostgresWithdrawalStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWithdrawalStore creates a new PostgreSQL implementation of the
// WithdrawalStore interface.
func NewPostgresWithdrawalStore(db store.DBTX, logger *slog.Logger) *PostgresWithdrawalStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWithdrawalStore{
		db:     db,
		logger: logger.With(slog.String("component", "withdrawal_store")),
	}
}

var _ store.WithdrawalStore = (*PostgresWithdrawalStore)(nil)

// WithTx implements store.WithdrawalStore.WithTx.
func (s *PostgresWithdrawalStore) WithTx(tx *sql.Tx) store.WithdrawalStore {
	return &PostgresWithdrawalStore{db: tx, logger: s.logger}
}

// Append implements store.WithdrawalStore.Append.
func (s *PostgresWithdrawalStore) Append(ctx context.Context, rec *domain.WithdrawalRecord) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO withdrawals (scholarship_id, idx, net_amount, fee_amount, created_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5)
	`, rec.ScholarshipID, rec.Index, formatAmount(rec.NetAmount), formatAmount(rec.FeeAmount), rec.Timestamp)
	if err != nil {
		log.Error("failed to append withdrawal record",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", rec.ScholarshipID),
			slog.Int("index", rec.Index))
		return store.NewStoreError("withdrawal", "append", MapError(err))
	}
	return nil
}

// List implements store.WithdrawalStore.List.
func (s *PostgresWithdrawalStore) List(ctx context.Context, scholarshipID uint64) ([]domain.WithdrawalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scholarship_id, idx, net_amount::text, fee_amount::text, created_at
		FROM withdrawals
		WHERE scholarship_id = $1
		ORDER BY idx
	`, scholarshipID)
	if err != nil {
		return nil, store.NewStoreError("withdrawal", "list", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := make([]domain.WithdrawalRecord, 0)
	for rows.Next() {
		rec, err := scanWithdrawal(rows.Scan)
		if err != nil {
			return nil, store.NewStoreError("withdrawal", "list", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("withdrawal", "list", err)
	}
	return records, nil
}

// GetByIndex implements store.WithdrawalStore.GetByIndex.
func (s *PostgresWithdrawalStore) GetByIndex(ctx context.Context, scholarshipID uint64, index int) (*domain.WithdrawalRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT scholarship_id, idx, net_amount::text, fee_amount::text, created_at
		FROM withdrawals
		WHERE scholarship_id = $1 AND idx = $2
	`, scholarshipID, index)

	rec, err := scanWithdrawal(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, store.NewStoreError("withdrawal", "get_by_index", MapError(err))
	}
	return rec, nil
}

// Count implements store.WithdrawalStore.Count.
func (s *PostgresWithdrawalStore) Count(ctx context.Context, scholarshipID uint64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM withdrawals WHERE scholarship_id = $1`,
		scholarshipID).Scan(&count)
	if err != nil {
		return 0, store.NewStoreError("withdrawal", "count", MapError(err))
	}
	return count, nil
}

// scanWithdrawal decodes one withdrawal row via the given scan function so
// *sql.Row and *sql.Rows share the decoding path.
func scanWithdrawal(scan func(dest ...any) error) (*domain.WithdrawalRecord, error) {
	var rec domain.WithdrawalRecord
	var net, fee string
	if err := scan(&rec.ScholarshipID, &rec.Index, &net, &fee, &rec.Timestamp); err != nil {
		return nil, err
	}
	var err error
	if rec.NetAmount, err = parseAmount(net); err != nil {
		return nil, err
	}
	if rec.FeeAmount, err = parseAmount(fee); err != nil {
		return nil, err
	}
	return &rec, nil
}
