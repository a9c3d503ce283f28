package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/scholarfund/scholarfund-api/internal/collab"
	"github.com/scholarfund/scholarfund-api/internal/config"
	"github.com/scholarfund/scholarfund-api/internal/domain"
	"github.com/scholarfund/scholarfund-api/internal/events"
	"github.com/scholarfund/scholarfund-api/internal/platform/logger"
	"github.com/scholarfund/scholarfund-api/internal/platform/memstore"
	"github.com/scholarfund/scholarfund-api/internal/platform/postgres"
	"github.com/scholarfund/scholarfund-api/internal/service"
	"github.com/scholarfund/scholarfund-api/internal/service/auth"
	"github.com/scholarfund/scholarfund-api/internal/store"
)

// application holds the composed dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db     *sql.DB // nil with the memory driver
	runner store.Runner

	tokenRegistry *collab.MemoryRegistry
	rewardToken   *collab.MemoryRewardToken
	vault         *collab.MemoryVault

	emitter *events.InMemoryEmitter

	ledger       service.LedgerService
	reputation   service.ReputationService
	scholarships service.ScholarshipService
	configs      service.ConfigService

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	cleanupFns []func()
}

// newApplication loads configuration and wires every component: store,
// collaborators, services, and authentication.
func newApplication() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server.LogLevel)
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)

	app := &application{
		config: cfg,
		logger: log,
	}

	if err := app.setupStore(); err != nil {
		return nil, err
	}
	if err := app.setupServices(); err != nil {
		app.cleanup()
		return nil, err
	}
	if err := app.seedConfig(); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// setupStore selects the persistence driver and builds the store runner.
func (app *application) setupStore() error {
	switch app.config.Database.Driver {
	case "postgres":
		db, err := openDatabase(app.config.Database.URL, app.logger)
		if err != nil {
			return err
		}
		app.db = db
		app.cleanupFns = append(app.cleanupFns, func() {
			if err := db.Close(); err != nil {
				app.logger.Error("Failed to close database connection", "error", err)
			}
		})
		if err := runMigrations(db, app.logger); err != nil {
			return err
		}
		app.runner = postgres.NewRunner(db, app.logger)
	case "memory":
		app.logger.Warn("Using in-memory store; all state is lost on shutdown")
		app.runner = memstore.New()
	default:
		return fmt.Errorf("unknown database driver %q", app.config.Database.Driver)
	}
	return nil
}

// setupServices builds the collaborators, the event emitter, and the service
// layer.
func (app *application) setupServices() error {
	app.tokenRegistry = collab.NewMemoryRegistry()
	app.rewardToken = collab.NewMemoryRewardToken()
	app.vault = collab.NewMemoryVault()
	app.emitter = events.NewInMemoryEmitter(app.logger)

	issuer := service.NewRewardIssuer(app.rewardToken, app.logger)
	app.ledger = service.NewLedgerService(app.runner, app.tokenRegistry, issuer, app.vault, app.logger)
	app.reputation = service.NewReputationService(app.runner, app.emitter, app.logger)
	app.scholarships = service.NewScholarshipService(app.runner, app.tokenRegistry, app.logger)
	app.configs = service.NewConfigService(app.runner, app.logger)

	jwtService, err := auth.NewJWTService(app.config.Auth)
	if err != nil {
		return fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.jwtService = jwtService
	app.passwordVerifier = auth.NewBcryptVerifier()
	return nil
}

// seedConfig installs the configured protocol settings unless a
// configuration row already exists.
func (app *application) seedConfig() error {
	seed := &domain.ProtocolConfig{
		FeeBps:             app.config.Protocol.FeeBps,
		RewardRatePerUnit:  app.config.Protocol.RewardRatePerUnit,
		CurrencyDecimals:   app.config.Protocol.CurrencyDecimals,
		RewardDecimals:     app.config.Protocol.RewardDecimals,
		TreasuryAddress:    app.config.Protocol.TreasuryAddress,
		RegistryAddress:    app.config.Protocol.RegistryAddress,
		RewardTokenAddress: app.config.Protocol.RewardTokenAddress,
		VaultAddress:       app.config.Protocol.VaultAddress,
		UpdatedAt:          time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.configs.Seed(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed protocol configuration: %w", err)
	}
	return nil
}

// run starts the HTTP server and blocks until shutdown.
func (app *application) run(ctx context.Context) error {
	return app.startHTTPServer(ctx, app.setupRouter())
}

// cleanup releases resources acquired during initialization, most recently
// acquired first.
func (app *application) cleanup() {
	for i := len(app.cleanupFns) - 1; i >= 0; i-- {
		app.cleanupFns[i]()
	}
	app.cleanupFns = nil
}
