package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/scholarfund/scholarfund-api/internal/store"
)

// Runner implements store.Runner on a PostgreSQL connection pool: each
// RunInTransaction call wraps fn in one database transaction and hands it a
// store set bound to that transaction.
type Runner struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRunner creates a Runner over the given connection pool.
func NewRunner(db *sql.DB, logger *slog.Logger) *Runner {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{db: db, logger: logger}
}

var _ store.Runner = (*Runner)(nil)

// Stores implements store.Runner.Stores: a store set bound to the pool, for
// reads outside any transaction.
func (r *Runner) Stores() store.Stores {
	return r.stores(r.db)
}

// RunInTransaction implements store.Runner.RunInTransaction.
func (r *Runner) RunInTransaction(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, r.stores(tx))
	})
}

func (r *Runner) stores(db store.DBTX) store.Stores {
	return store.Stores{
		Scholarships:  NewPostgresScholarshipStore(db, r.logger),
		Contributions: NewPostgresContributionStore(db, r.logger),
		Withdrawals:   NewPostgresWithdrawalStore(db, r.logger),
		Ratings:       NewPostgresRatingStore(db, r.logger),
		Config:        NewPostgresConfigStore(db, r.logger),
	}
}
