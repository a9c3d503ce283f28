// Package postgres implements the store interfaces on PostgreSQL using the
// pgx stdlib driver.
//
// Monetary columns are NUMERIC(20,0) because database/sql has no unsigned
// 64-bit type; values travel as decimal strings and are parsed at the edge.
// Mutating operations acquire SELECT ... FOR UPDATE on the scholarship (or
// aggregate) row, which serializes all ledger activity on one scholarship
// for the duration of the enclosing transaction.
package postgres
