// Package store defines the persistence interfaces for the scholarship
// ledger and the transaction helpers that keep multi-record updates atomic.
//
// Every mutating ledger operation runs inside a single transaction obtained
// from a Runner; the transaction (backed by a row lock in Postgres or a
// registry-wide mutex in memstore) is the per-scholarship critical section
// the concurrency model requires. Services re-read live state inside that
// section and never trust values cached from an earlier read.
package store
