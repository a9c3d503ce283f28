package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// ConfigService owns the protocol configuration record. Reads are open;
// every mutation is an administrative operation, gated before the request
// reaches this service.
type ConfigService interface {
	// Get returns the current configuration.
	Get(ctx context.Context) (*domain.ProtocolConfig, error)

	// SetFeeBps changes the withdrawal fee rate. Rejects rates above the
	// cap; in-flight withdrawals are unaffected, later ones use the new
	// rate.
	SetFeeBps(ctx context.Context, feeBps uint64) error

	// SetRewardRate changes the reward issuance rate. Zero disables
	// issuance.
	SetRewardRate(ctx context.Context, ratePerUnit uint64) error

	// SetCollaborators changes the collaborator addresses as a unit.
	SetCollaborators(ctx context.Context, treasury, registry, rewardToken, vault string) error

	// Seed installs the given configuration if none is stored yet. A
	// configuration already on record is left untouched.
	Seed(ctx context.Context, cfg *domain.ProtocolConfig) error
}

type configService struct {
	runner store.Runner
	logger *slog.Logger
}

// NewConfigService creates the protocol configuration service.
func NewConfigService(runner store.Runner, log *slog.Logger) ConfigService {
	if runner == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("config service dependencies cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &configService{
		runner: runner,
		logger: log.With(slog.String("component", "config_service")),
	}
}

// Get implements ConfigService.Get.
func (s *configService) Get(ctx context.Context) (*domain.ProtocolConfig, error) {
	cfg, err := s.runner.Stores().Config.Get(ctx)
	return cfg, wrapErr("get_config", err)
}

// SetFeeBps implements ConfigService.SetFeeBps.
func (s *configService) SetFeeBps(ctx context.Context, feeBps uint64) error {
	return s.mutate(ctx, "set_fee_bps", func(cfg *domain.ProtocolConfig) error {
		return cfg.SetFeeBps(feeBps)
	})
}

// SetRewardRate implements ConfigService.SetRewardRate.
func (s *configService) SetRewardRate(ctx context.Context, ratePerUnit uint64) error {
	return s.mutate(ctx, "set_reward_rate", func(cfg *domain.ProtocolConfig) error {
		return cfg.SetRewardRate(ratePerUnit)
	})
}

// SetCollaborators implements ConfigService.SetCollaborators.
func (s *configService) SetCollaborators(ctx context.Context, treasury, registry, rewardToken, vault string) error {
	return s.mutate(ctx, "set_collaborators", func(cfg *domain.ProtocolConfig) error {
		return cfg.SetCollaborators(treasury, registry, rewardToken, vault)
	})
}

// Seed implements ConfigService.Seed.
func (s *configService) Seed(ctx context.Context, cfg *domain.ProtocolConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cfg.Validate(); err != nil {
		return wrapErr("seed_config", err)
	}
	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		_, err := st.Config.Get(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrConfigNotFound) {
			return err
		}
		return st.Config.Put(ctx, cfg)
	})
	if err != nil {
		return wrapErr("seed_config", err)
	}

	log.Info("protocol configuration seeded",
		slog.Uint64("fee_bps", cfg.FeeBps),
		slog.Uint64("reward_rate_per_unit", cfg.RewardRatePerUnit))
	return nil
}

// mutate runs one setter against the stored record inside a transaction, so
// concurrent administrative updates serialize instead of clobbering each
// other.
func (s *configService) mutate(ctx context.Context, op string, apply func(*domain.ProtocolConfig) error) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runner.RunInTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		cfg, err := st.Config.Get(ctx)
		if err != nil {
			return err
		}
		if err := apply(cfg); err != nil {
			return err
		}
		return st.Config.Put(ctx, cfg)
	})
	if err != nil {
		return wrapErr(op, err)
	}

	log.Info("protocol configuration updated", slog.String("operation", op))
	return nil
}
