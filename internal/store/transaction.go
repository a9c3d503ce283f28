package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
)

// Stores bundles every store interface bound to one transaction (or, for
// reads, to the connection pool). Services receive a Stores inside a Runner
// callback and must not retain it past the callback.
type Stores struct {
	Scholarships  ScholarshipStore
	Contributions ContributionStore
	Withdrawals   WithdrawalStore
	Ratings       RatingStore
	Config        ConfigStore
}

// Runner executes a function atomically against the store set: every
// mutation inside fn commits in full or none of it does. Implementations
// also guarantee mutual exclusion for rows locked via the GetForUpdate
// methods for the duration of fn.
type Runner interface {
	// RunInTransaction executes fn inside one transaction, committing on
	// nil and rolling back on error or panic.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, s Stores) error) error

	// Stores returns the store set bound to the plain connection, for
	// side-effect-free reads outside any transaction.
	Stores() Stores
}

// TxFn is a function that executes within a database transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction executes the given function within a database
// transaction. If the function returns an error or panics, the transaction
// is rolled back; otherwise it is committed.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %v", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			if txErr := tx.Rollback(); txErr != nil {
				log.Error("failed to roll back transaction after panic",
					slog.String("error", txErr.Error()),
					slog.Any("panic", p))
			}
			// ALLOW-PANIC: propagating caught panic from transaction
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rollbackErr.Error()),
				slog.String("original_error", err.Error()))
			return fmt.Errorf("error rolling back transaction: %v (original error: %w)",
				rollbackErr, err)
		}
		log.Debug("rolled back transaction due to error",
			slog.String("error", err.Error()))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %v", ErrTransactionFailed, err)
	}

	return nil
}
