// Package memstore implements the store interfaces on in-process maps.
//
// It backs the unit tests and the server's "memory" database driver. One
// registry-wide mutex plays the role Postgres row locks play in the
// production store: RunInTransaction holds it exclusively for the whole
// callback, which serializes every mutating operation, and restores a
// snapshot on error so a failed operation leaves no partial effect.
package memstore

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// Registry holds all ledger state for the in-memory store.
type Registry struct {
	mu            sync.RWMutex
	scholarships  map[uint64]*domain.Scholarship
	order         []uint64
	contributions map[uint64][]*domain.Contribution
	withdrawals   map[uint64][]domain.WithdrawalRecord
	aggregates    map[uint64]*domain.RatingAggregate
	config        *domain.ProtocolConfig
}

// New creates an empty in-memory registry.
func New() *Registry {
	return &Registry{
		scholarships:  make(map[uint64]*domain.Scholarship),
		contributions: make(map[uint64][]*domain.Contribution),
		withdrawals:   make(map[uint64][]domain.WithdrawalRecord),
		aggregates:    make(map[uint64]*domain.RatingAggregate),
	}
}

var _ store.Runner = (*Registry)(nil)

// Stores implements store.Runner.Stores. The returned stores take the read
// lock per call.
func (r *Registry) Stores() store.Stores {
	return r.stores(false)
}

// RunInTransaction implements store.Runner.RunInTransaction. The registry
// mutex is held exclusively for the whole callback; a snapshot taken at
// entry is restored if fn returns an error or panics.
func (r *Registry) RunInTransaction(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.snapshot()
	defer func() {
		if p := recover(); p != nil {
			r.restore(snap)
			// ALLOW-PANIC: propagating caught panic from transaction
			panic(p)
		}
	}()

	if err := fn(ctx, r.stores(true)); err != nil {
		r.restore(snap)
		return err
	}
	return nil
}

// stores builds the store set. inTx stores assume the caller already holds
// the registry mutex and take no locks of their own.
func (r *Registry) stores(inTx bool) store.Stores {
	return store.Stores{
		Scholarships:  &scholarshipStore{reg: r, inTx: inTx},
		Contributions: &contributionStore{reg: r, inTx: inTx},
		Withdrawals:   &withdrawalStore{reg: r, inTx: inTx},
		Ratings:       &ratingStore{reg: r, inTx: inTx},
		Config:        &configStore{reg: r, inTx: inTx},
	}
}

type snapshotState struct {
	scholarships  map[uint64]*domain.Scholarship
	order         []uint64
	contributions map[uint64][]*domain.Contribution
	withdrawals   map[uint64][]domain.WithdrawalRecord
	aggregates    map[uint64]*domain.RatingAggregate
	config        *domain.ProtocolConfig
}

func (r *Registry) snapshot() snapshotState {
	s := snapshotState{
		scholarships:  make(map[uint64]*domain.Scholarship, len(r.scholarships)),
		order:         append([]uint64(nil), r.order...),
		contributions: make(map[uint64][]*domain.Contribution, len(r.contributions)),
		withdrawals:   make(map[uint64][]domain.WithdrawalRecord, len(r.withdrawals)),
		aggregates:    make(map[uint64]*domain.RatingAggregate, len(r.aggregates)),
	}
	for id, sch := range r.scholarships {
		s.scholarships[id] = copyScholarship(sch)
	}
	for id, list := range r.contributions {
		cp := make([]*domain.Contribution, len(list))
		for i, c := range list {
			cc := *c
			cp[i] = &cc
		}
		s.contributions[id] = cp
	}
	for id, list := range r.withdrawals {
		s.withdrawals[id] = append([]domain.WithdrawalRecord(nil), list...)
	}
	for id, agg := range r.aggregates {
		ac := *agg
		s.aggregates[id] = &ac
	}
	if r.config != nil {
		cc := *r.config
		s.config = &cc
	}
	return s
}

func (r *Registry) restore(s snapshotState) {
	r.scholarships = s.scholarships
	r.order = s.order
	r.contributions = s.contributions
	r.withdrawals = s.withdrawals
	r.aggregates = s.aggregates
	r.config = s.config
}

func copyScholarship(s *domain.Scholarship) *domain.Scholarship {
	cp := *s
	if s.FrozenOverride != nil {
		v := *s.FrozenOverride
		cp.FrozenOverride = &v
	}
	return &cp
}

// lockGuard takes the appropriate registry lock for a non-transactional
// store call and returns the matching unlock. Transactional stores run under
// the runner's exclusive lock and lock nothing.
func (r *Registry) lockGuard(inTx, write bool) func() {
	if inTx {
		return func() {}
	}
	if write {
		r.mu.Lock()
		return r.mu.Unlock
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

// --- ScholarshipStore ---

type scholarshipStore struct {
	reg  *Registry
	inTx bool
}

var _ store.ScholarshipStore = (*scholarshipStore)(nil)

// WithTx satisfies the interface; the memstore has no *sql.Tx to bind.
func (s *scholarshipStore) WithTx(_ *sql.Tx) store.ScholarshipStore { return s }

func (s *scholarshipStore) Create(_ context.Context, sch *domain.Scholarship) error {
	if err := sch.Validate(); err != nil {
		return err
	}
	defer s.reg.lockGuard(s.inTx, true)()
	if _, ok := s.reg.scholarships[sch.ID]; ok {
		return store.ErrDuplicate
	}
	s.reg.scholarships[sch.ID] = copyScholarship(sch)
	s.reg.order = append(s.reg.order, sch.ID)
	return nil
}

func (s *scholarshipStore) GetByID(_ context.Context, id uint64) (*domain.Scholarship, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	sch, ok := s.reg.scholarships[id]
	if !ok {
		return nil, store.ErrScholarshipNotFound
	}
	return copyScholarship(sch), nil
}

// GetForUpdate is identical to GetByID here: exclusion comes from the
// runner's mutex, already held when this is called inside a transaction.
func (s *scholarshipStore) GetForUpdate(ctx context.Context, id uint64) (*domain.Scholarship, error) {
	return s.GetByID(ctx, id)
}

func (s *scholarshipStore) UpdateFunding(ctx context.Context, sch *domain.Scholarship) error {
	return s.put(ctx, sch)
}

func (s *scholarshipStore) UpdateWithdrawal(ctx context.Context, sch *domain.Scholarship) error {
	return s.put(ctx, sch)
}

func (s *scholarshipStore) UpdateFreeze(ctx context.Context, sch *domain.Scholarship) error {
	return s.put(ctx, sch)
}

func (s *scholarshipStore) put(_ context.Context, sch *domain.Scholarship) error {
	defer s.reg.lockGuard(s.inTx, true)()
	if _, ok := s.reg.scholarships[sch.ID]; !ok {
		return store.ErrScholarshipNotFound
	}
	s.reg.scholarships[sch.ID] = copyScholarship(sch)
	return nil
}

func (s *scholarshipStore) ListIDs(_ context.Context) ([]uint64, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	return append([]uint64(nil), s.reg.order...), nil
}

func (s *scholarshipStore) ListIDsByOwner(_ context.Context, owner uuid.UUID) ([]uint64, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	ids := make([]uint64, 0)
	for _, id := range s.reg.order {
		if s.reg.scholarships[id].Owner == owner {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// --- ContributionStore ---

type contributionStore struct {
	reg  *Registry
	inTx bool
}

var _ store.ContributionStore = (*contributionStore)(nil)

func (s *contributionStore) WithTx(_ *sql.Tx) store.ContributionStore { return s }

func (s *contributionStore) Get(_ context.Context, scholarshipID uint64, investor uuid.UUID) (*domain.Contribution, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	for _, c := range s.reg.contributions[scholarshipID] {
		if c.Investor == investor {
			cc := *c
			return &cc, nil
		}
	}
	return nil, store.ErrContributionNotFound
}

func (s *contributionStore) Upsert(_ context.Context, c *domain.Contribution) error {
	defer s.reg.lockGuard(s.inTx, true)()
	list := s.reg.contributions[c.ScholarshipID]
	for i, existing := range list {
		if existing.Investor == c.Investor {
			cc := *c
			list[i] = &cc
			return nil
		}
	}
	cc := *c
	s.reg.contributions[c.ScholarshipID] = append(list, &cc)
	return nil
}

func (s *contributionStore) ListInvestors(_ context.Context, scholarshipID uint64) ([]uuid.UUID, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	list := s.reg.contributions[scholarshipID]
	investors := make([]uuid.UUID, len(list))
	for i, c := range list {
		investors[i] = c.Investor
	}
	return investors, nil
}

func (s *contributionStore) CountInvestors(_ context.Context, scholarshipID uint64) (int, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	return len(s.reg.contributions[scholarshipID]), nil
}

func (s *contributionStore) NextPosition(ctx context.Context, scholarshipID uint64) (int, error) {
	return s.CountInvestors(ctx, scholarshipID)
}

func (s *contributionStore) SumContributions(_ context.Context, scholarshipID uint64) (uint64, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	var sum uint64
	for _, c := range s.reg.contributions[scholarshipID] {
		total, err := domain.CheckedAdd(sum, c.Amount)
		if err != nil {
			return 0, err
		}
		sum = total
	}
	return sum, nil
}

// --- WithdrawalStore ---

type withdrawalStore struct {
	reg  *Registry
	inTx bool
}

var _ store.WithdrawalStore = (*withdrawalStore)(nil)

func (s *withdrawalStore) WithTx(_ *sql.Tx) store.WithdrawalStore { return s }

func (s *withdrawalStore) Append(_ context.Context, rec *domain.WithdrawalRecord) error {
	defer s.reg.lockGuard(s.inTx, true)()
	s.reg.withdrawals[rec.ScholarshipID] = append(s.reg.withdrawals[rec.ScholarshipID], *rec)
	return nil
}

func (s *withdrawalStore) List(_ context.Context, scholarshipID uint64) ([]domain.WithdrawalRecord, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	return append([]domain.WithdrawalRecord(nil), s.reg.withdrawals[scholarshipID]...), nil
}

func (s *withdrawalStore) GetByIndex(_ context.Context, scholarshipID uint64, index int) (*domain.WithdrawalRecord, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	list := s.reg.withdrawals[scholarshipID]
	if index < 0 || index >= len(list) {
		return nil, store.ErrNotFound
	}
	rec := list[index]
	return &rec, nil
}

func (s *withdrawalStore) Count(_ context.Context, scholarshipID uint64) (int, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	return len(s.reg.withdrawals[scholarshipID]), nil
}

// --- RatingStore ---

type ratingStore struct {
	reg  *Registry
	inTx bool
}

var _ store.RatingStore = (*ratingStore)(nil)

func (s *ratingStore) WithTx(_ *sql.Tx) store.RatingStore { return s }

func (s *ratingStore) Create(_ context.Context, agg *domain.RatingAggregate) error {
	defer s.reg.lockGuard(s.inTx, true)()
	if _, ok := s.reg.aggregates[agg.ScholarshipID]; ok {
		return store.ErrDuplicate
	}
	ac := *agg
	s.reg.aggregates[agg.ScholarshipID] = &ac
	return nil
}

func (s *ratingStore) Get(_ context.Context, scholarshipID uint64) (*domain.RatingAggregate, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	agg, ok := s.reg.aggregates[scholarshipID]
	if !ok {
		return nil, store.ErrScholarshipNotFound
	}
	ac := *agg
	return &ac, nil
}

func (s *ratingStore) GetForUpdate(ctx context.Context, scholarshipID uint64) (*domain.RatingAggregate, error) {
	return s.Get(ctx, scholarshipID)
}

func (s *ratingStore) Update(_ context.Context, agg *domain.RatingAggregate) error {
	defer s.reg.lockGuard(s.inTx, true)()
	if _, ok := s.reg.aggregates[agg.ScholarshipID]; !ok {
		return store.ErrScholarshipNotFound
	}
	ac := *agg
	s.reg.aggregates[agg.ScholarshipID] = &ac
	return nil
}

func (s *ratingStore) TopRated(_ context.Context, limit int) ([]store.RankedScholarship, error) {
	if limit <= 0 {
		return []store.RankedScholarship{}, nil
	}
	defer s.reg.lockGuard(s.inTx, false)()

	ranked := make([]store.RankedScholarship, 0, len(s.reg.aggregates))
	for id, agg := range s.reg.aggregates {
		ranked = append(ranked, store.RankedScholarship{
			ScholarshipID: id,
			Average:       agg.WeightedAverage(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Average != ranked[j].Average {
			return ranked[i].Average > ranked[j].Average
		}
		return ranked[i].ScholarshipID < ranked[j].ScholarshipID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// --- ConfigStore ---

type configStore struct {
	reg  *Registry
	inTx bool
}

var _ store.ConfigStore = (*configStore)(nil)

func (s *configStore) WithTx(_ *sql.Tx) store.ConfigStore { return s }

func (s *configStore) Get(_ context.Context) (*domain.ProtocolConfig, error) {
	defer s.reg.lockGuard(s.inTx, false)()
	if s.reg.config == nil {
		return nil, store.ErrConfigNotFound
	}
	cc := *s.reg.config
	return &cc, nil
}

func (s *configStore) Put(_ context.Context, cfg *domain.ProtocolConfig) error {
	defer s.reg.lockGuard(s.inTx, true)()
	cc := *cfg
	if cc.UpdatedAt.IsZero() {
		cc.UpdatedAt = time.Now().UTC()
	}
	s.reg.config = &cc
	return nil
}
