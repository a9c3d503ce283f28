package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// PostgresConfigStore implements the store.ConfigStore interface. The
// protocol configuration lives in a single row keyed by a constant.
type PostgresConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresConfigStore creates a new PostgreSQL implementation of the
// ConfigStore interface.
func NewPostgresConfigStore(db store.DBTX, logger *slog.Logger) *PostgresConfigStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "config_store")),
	}
}

var _ store.ConfigStore = (*PostgresConfigStore)(nil)

// WithTx implements store.ConfigStore.WithTx.
func (s *PostgresConfigStore) WithTx(tx *sql.Tx) store.ConfigStore {
	return &PostgresConfigStore{db: tx, logger: s.logger}
}

// Get implements store.ConfigStore.Get.
func (s *PostgresConfigStore) Get(ctx context.Context) (*domain.ProtocolConfig, error) {
	var cfg domain.ProtocolConfig
	var rate string
	err := s.db.QueryRowContext(ctx, `
		SELECT fee_bps, reward_rate_per_unit::text, currency_decimals,
		       reward_decimals, treasury_address, registry_address,
		       reward_token_address, vault_address, updated_at
		FROM protocol_config
		WHERE singleton
	`).Scan(
		&cfg.FeeBps,
		&rate,
		&cfg.CurrencyDecimals,
		&cfg.RewardDecimals,
		&cfg.TreasuryAddress,
		&cfg.RegistryAddress,
		&cfg.RewardTokenAddress,
		&cfg.VaultAddress,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrConfigNotFound
		}
		return nil, store.NewStoreError("protocol_config", "get", MapError(err))
	}
	if cfg.RewardRatePerUnit, err = parseAmount(rate); err != nil {
		return nil, store.NewStoreError("protocol_config", "get", err)
	}
	return &cfg, nil
}

// Put implements store.ConfigStore.Put.
func (s *PostgresConfigStore) Put(ctx context.Context, cfg *domain.ProtocolConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO protocol_config
			(singleton, fee_bps, reward_rate_per_unit, currency_decimals,
			 reward_decimals, treasury_address, registry_address,
			 reward_token_address, vault_address, updated_at)
		VALUES (TRUE, $1, $2::numeric, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (singleton)
		DO UPDATE SET
			fee_bps = EXCLUDED.fee_bps,
			reward_rate_per_unit = EXCLUDED.reward_rate_per_unit,
			currency_decimals = EXCLUDED.currency_decimals,
			reward_decimals = EXCLUDED.reward_decimals,
			treasury_address = EXCLUDED.treasury_address,
			registry_address = EXCLUDED.registry_address,
			reward_token_address = EXCLUDED.reward_token_address,
			vault_address = EXCLUDED.vault_address,
			updated_at = EXCLUDED.updated_at
	`,
		cfg.FeeBps,
		formatAmount(cfg.RewardRatePerUnit),
		cfg.CurrencyDecimals,
		cfg.RewardDecimals,
		cfg.TreasuryAddress,
		cfg.RegistryAddress,
		cfg.RewardTokenAddress,
		cfg.VaultAddress,
		cfg.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to put protocol config", slog.String("error", err.Error()))
		return store.NewStoreError("protocol_config", "put", MapError(err))
	}
	return nil
}
