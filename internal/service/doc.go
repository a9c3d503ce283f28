// Package service orchestrates the ledger's operations over the store
// layer and the external collaborators.
//
// Every mutating operation runs inside one store.Runner transaction that
// locks the scholarship row first, re-reads live balance, freeze state and
// ownership inside that critical section, and commits in full or rejects in
// full. Collaborator calls that may fail the operation (reward minting,
// vault transfers) run inside the transaction so their failure rolls
// everything back; freeze notifications are emitted only after commit.
package service
