package collab

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
)

// MemoryRegistry is an in-process Registry issuing dense sequential 1-based
// ids. Safe for concurrent use.
type MemoryRegistry struct {
	mu     sync.RWMutex
	nextID uint64
	owners map[uint64]uuid.UUID
	meta   map[uint64]string
}

// NewMemoryRegistry creates an empty registry; the first minted id is 1.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		nextID: 1,
		owners: make(map[uint64]uuid.UUID),
		meta:   make(map[uint64]string),
	}
}

var _ Registry = (*MemoryRegistry)(nil)

// MintToken implements Registry.MintToken.
func (r *MemoryRegistry) MintToken(_ context.Context, to uuid.UUID, metadata string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.owners[id] = to
	r.meta[id] = metadata
	return id, nil
}

// OwnerOf implements Registry.OwnerOf.
func (r *MemoryRegistry) OwnerOf(_ context.Context, id uint64) (uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	if !ok {
		return uuid.Nil, ErrUnknownToken
	}
	return owner, nil
}

// MetadataOf implements Registry.MetadataOf.
func (r *MemoryRegistry) MetadataOf(_ context.Context, id uint64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.meta[id]
	if !ok {
		return "", ErrUnknownToken
	}
	return meta, nil
}

// Transfer reassigns ownership of a token. Not part of the Registry
// interface the ledger consumes; exists so tests can exercise the live
// ownership re-read on withdrawal.
func (r *MemoryRegistry) Transfer(_ context.Context, id uint64, to uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; !ok {
		return ErrUnknownToken
	}
	r.owners[id] = to
	return nil
}

// MemoryRewardToken is an in-process RewardToken. Safe for concurrent use.
//
// MintErr, when set, makes the next Mint call fail; tests use it to verify
// that a failed issuance aborts the whole funding operation.
type MemoryRewardToken struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]uint64

	MintErr error
}

// NewMemoryRewardToken creates a token ledger with no balances.
func NewMemoryRewardToken() *MemoryRewardToken {
	return &MemoryRewardToken{balances: make(map[uuid.UUID]uint64)}
}

var _ RewardToken = (*MemoryRewardToken)(nil)

// Mint implements RewardToken.Mint.
func (t *MemoryRewardToken) Mint(_ context.Context, to uuid.UUID, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.MintErr != nil {
		return t.MintErr
	}
	total, err := domain.CheckedAdd(t.balances[to], amount)
	if err != nil {
		return err
	}
	t.balances[to] = total
	return nil
}

// BalanceOf implements RewardToken.BalanceOf.
func (t *MemoryRewardToken) BalanceOf(_ context.Context, holder uuid.UUID) (uint64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balances[holder], nil
}

// RequireBalance implements RewardToken.RequireBalance.
func (t *MemoryRewardToken) RequireBalance(_ context.Context, holder uuid.UUID, amount uint64) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.balances[holder] < amount {
		return ErrInsufficientRewardBalance
	}
	return nil
}

// MemoryVault is an in-process CurrencyVault: deposits accumulate in a held
// pool, releases move value from the pool to named accounts. Safe for
// concurrent use.
type MemoryVault struct {
	mu       sync.RWMutex
	held     uint64
	balances map[string]uint64
}

// NewMemoryVault creates an empty vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{balances: make(map[string]uint64)}
}

var _ CurrencyVault = (*MemoryVault)(nil)

// Deposit implements CurrencyVault.Deposit. The source account is external
// and assumed solvent; only the vault's held total is tracked.
func (v *MemoryVault) Deposit(_ context.Context, _ string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	held, err := domain.CheckedAdd(v.held, amount)
	if err != nil {
		return err
	}
	v.held = held
	return nil
}

// Release implements CurrencyVault.Release.
func (v *MemoryVault) Release(_ context.Context, to string, amount uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if amount > v.held {
		return ErrInsufficientFunds
	}
	total, err := domain.CheckedAdd(v.balances[to], amount)
	if err != nil {
		return err
	}
	v.held -= amount
	v.balances[to] = total
	return nil
}

// BalanceOf implements CurrencyVault.BalanceOf.
func (v *MemoryVault) BalanceOf(_ context.Context, account string) (uint64, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.balances[account], nil
}

// Held returns the amount currently held by the vault pool.
func (v *MemoryVault) Held() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.held
}
