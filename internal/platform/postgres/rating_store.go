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

// PostgresRatingStore implements the store.RatingStore interface using a
// PostgreSQL database as the storage backend. Only running sums are stored;
// individual ratings are never persisted.
type PostgresRatingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRatingStore creates a new PostgreSQL implementation of the
// RatingStore interface.
func NewPostgresRatingStore(db store.DBTX, logger *slog.Logger) *PostgresRatingStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRatingStore{
		db:     db,
		logger: logger.With(slog.String("component", "rating_store")),
	}
}

var _ store.RatingStore = (*PostgresRatingStore)(nil)

// WithTx implements store.RatingStore.WithTx.
func (s *PostgresRatingStore) WithTx(tx *sql.Tx) store.RatingStore {
	return &PostgresRatingStore{db: tx, logger: s.logger}
}

// Create implements store.RatingStore.Create.
func (s *PostgresRatingStore) Create(ctx context.Context, agg *domain.RatingAggregate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rating_aggregates (scholarship_id, weight_sum, score_weight_sum, rating_count)
		VALUES ($1, $2::numeric, $3::numeric, $4)
	`, agg.ScholarshipID, formatAmount(agg.WeightSum), formatAmount(agg.ScoreWeightSum), agg.RatingCount)
	if err != nil {
		log.Error("failed to create rating aggregate",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", agg.ScholarshipID))
		return store.NewStoreError("rating_aggregate", "create", MapError(err))
	}
	return nil
}

// Get implements store.RatingStore.Get.
func (s *PostgresRatingStore) Get(ctx context.Context, scholarshipID uint64) (*domain.RatingAggregate, error) {
	return s.get(ctx, scholarshipID, "")
}

// GetForUpdate implements store.RatingStore.GetForUpdate.
func (s *PostgresRatingStore) GetForUpdate(ctx context.Context, scholarshipID uint64) (*domain.RatingAggregate, error) {
	return s.get(ctx, scholarshipID, " FOR UPDATE")
}

func (s *PostgresRatingStore) get(ctx context.Context, scholarshipID uint64, suffix string) (*domain.RatingAggregate, error) {
	var agg domain.RatingAggregate
	var weightSum, scoreWeightSum string
	err := s.db.QueryRowContext(ctx, `
		SELECT scholarship_id, weight_sum::text, score_weight_sum::text, rating_count
		FROM rating_aggregates
		WHERE scholarship_id = $1`+suffix,
		scholarshipID,
	).Scan(&agg.ScholarshipID, &weightSum, &scoreWeightSum, &agg.RatingCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrScholarshipNotFound
		}
		return nil, store.NewStoreError("rating_aggregate", "get", MapError(err))
	}
	if agg.WeightSum, err = parseAmount(weightSum); err != nil {
		return nil, store.NewStoreError("rating_aggregate", "get", err)
	}
	if agg.ScoreWeightSum, err = parseAmount(scoreWeightSum); err != nil {
		return nil, store.NewStoreError("rating_aggregate", "get", err)
	}
	return &agg, nil
}

// Update implements store.RatingStore.Update.
func (s *PostgresRatingStore) Update(ctx context.Context, agg *domain.RatingAggregate) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	res, err := s.db.ExecContext(ctx, `
		UPDATE rating_aggregates
		SET weight_sum = $2::numeric, score_weight_sum = $3::numeric, rating_count = $4
		WHERE scholarship_id = $1
	`, agg.ScholarshipID, formatAmount(agg.WeightSum), formatAmount(agg.ScoreWeightSum), agg.RatingCount)
	if err != nil {
		log.Error("failed to update rating aggregate",
			slog.String("error", err.Error()),
			slog.Uint64("scholarship_id", agg.ScholarshipID))
		return store.NewStoreError("rating_aggregate", "update", MapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.NewStoreError("rating_aggregate", "update", err)
	}
	if n == 0 {
		return store.ErrScholarshipNotFound
	}
	return nil
}

// TopRated implements store.RatingStore.TopRated. The ordering rule
// (descending truncated weighted average, ties by ascending id, unrated rows
// at average 0) is computed in SQL so the ranking never loads every
// aggregate into memory.
func (s *PostgresRatingStore) TopRated(ctx context.Context, limit int) ([]store.RankedScholarship, error) {
	if limit <= 0 {
		return []store.RankedScholarship{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT scholarship_id,
		       CASE WHEN weight_sum = 0 THEN '0'
		            ELSE FLOOR(score_weight_sum / weight_sum)::text
		       END AS average
		FROM rating_aggregates
		ORDER BY CASE WHEN weight_sum = 0 THEN 0
		              ELSE FLOOR(score_weight_sum / weight_sum)
		         END DESC,
		         scholarship_id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, store.NewStoreError("rating_aggregate", "top_rated", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	ranked := make([]store.RankedScholarship, 0, limit)
	for rows.Next() {
		var r store.RankedScholarship
		var avg string
		if err := rows.Scan(&r.ScholarshipID, &avg); err != nil {
			return nil, store.NewStoreError("rating_aggregate", "top_rated", err)
		}
		if r.Average, err = parseAmount(avg); err != nil {
			return nil, store.NewStoreError("rating_aggregate", "top_rated", err)
		}
		ranked = append(ranked, r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("rating_aggregate", "top_rated", err)
	}
	return ranked, nil
}
