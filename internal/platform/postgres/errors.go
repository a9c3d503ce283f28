package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// PostgreSQL error codes.
const (
	// uniqueViolationCode is the error code for unique constraint violations.
	uniqueViolationCode = "23505"

	// foreignKeyViolationCode is the error code for foreign key violations.
	foreignKeyViolationCode = "23503"

	// checkViolationCode is the error code for check constraint violations.
	// The schema carries balance/total checks mirroring the domain
	// invariants, so tripping one means a bug above this layer.
	checkViolationCode = "23514"
)

// MapError maps a database error to the matching store error, wrapping the
// original for context. Use on every database operation so error handling
// stays consistent across stores.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s): %v",
				store.ErrNotFound, pgErr.ConstraintName, err)
		case checkViolationCode:
			return fmt.Errorf("check constraint violation (%s): %v",
				pgErr.ConstraintName, err)
		}
	}

	return err
}

// IsUniqueViolation checks if the given error is a unique constraint
// violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// parseAmount converts a NUMERIC(20,0) column fetched as text back into a
// uint64.
func parseAmount(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

// formatAmount renders a uint64 for a NUMERIC(20,0) parameter.
func formatAmount(v uint64) string {
	return strconv.FormatUint(v, 10)
}
