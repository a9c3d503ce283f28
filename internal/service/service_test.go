package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/events"
	"github.com/scholarfund/scholarfund-api/internal/platform/memstore"
)

// fixture wires the full service stack over the in-memory store and the
// in-memory collaborators, the same composition the server's "memory" driver
// uses.
type fixture struct {
	ctx          context.Context
	registry     *collab.MemoryRegistry
	token        *collab.MemoryRewardToken
	vault        *collab.MemoryVault
	emitter      *events.InMemoryEmitter
	flips        *flipRecorder
	ledger       LedgerService
	reputation   ReputationService
	scholarships ScholarshipService
	configs      ConfigService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := memstore.New()
	tokenRegistry := collab.NewMemoryRegistry()
	rewardToken := collab.NewMemoryRewardToken()
	vault := collab.NewMemoryVault()
	emitter := events.NewInMemoryEmitter(log)
	flips := &flipRecorder{}
	emitter.RegisterHandler(flips)

	f := &fixture{
		ctx:          context.Background(),
		registry:     tokenRegistry,
		token:        rewardToken,
		vault:        vault,
		emitter:      emitter,
		flips:        flips,
		ledger:       NewLedgerService(reg, tokenRegistry, NewRewardIssuer(rewardToken, log), vault, log),
		reputation:   NewReputationService(reg, emitter, log),
		scholarships: NewScholarshipService(reg, tokenRegistry, log),
		configs:      NewConfigService(reg, log),
	}

	cfg := &domain.ProtocolConfig{
		FeeBps:             100,
		RewardRatePerUnit:  domain.DefaultRewardPolicy().RatePerUnit,
		CurrencyDecimals:   domain.DefaultCurrencyDecimals,
		RewardDecimals:     domain.DefaultRewardDecimals,
		TreasuryAddress:    "treasury",
		RegistryAddress:    "registry",
		RewardTokenAddress: "reward-token",
		VaultAddress:       "vault",
	}
	require.NoError(t, f.configs.Seed(f.ctx, cfg))
	return f
}

// create mints a scholarship for a fresh student and returns its id and the
// student identity.
func (f *fixture) create(t *testing.T, metadata string) (uint64, uuid.UUID) {
	t.Helper()
	student := uuid.New()
	id, err := f.scholarships.CreateScholarship(f.ctx, student, metadata)
	require.NoError(t, err)
	return id, student
}

// flipRecorder captures freeze status change events for assertions.
type flipRecorder struct {
	mu     sync.Mutex
	events []events.FreezeStatusChanged
}

func (r *flipRecorder) HandleFreezeStatusChanged(_ context.Context, ev events.FreezeStatusChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *flipRecorder) all() []events.FreezeStatusChanged {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.FreezeStatusChanged(nil), r.events...)
}

func (r *flipRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
