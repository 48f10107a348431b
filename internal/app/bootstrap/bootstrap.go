package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	tokenregistry "bazaar/contexts/asset-core/token-registry"
	registrypostgres "bazaar/contexts/asset-core/token-registry/adapters/postgres"
	registryworkers "bazaar/contexts/asset-core/token-registry/application/workers"
	listingmarketplace "bazaar/contexts/trading-core/listing-marketplace"
	marketpostgres "bazaar/contexts/trading-core/listing-marketplace/adapters/postgres"
	registryadapter "bazaar/contexts/trading-core/listing-marketplace/adapters/registry"
	marketworkers "bazaar/contexts/trading-core/listing-marketplace/application/workers"
	"bazaar/internal/platform/config"
	"bazaar/internal/platform/db"
	"bazaar/internal/platform/httpserver"
	"bazaar/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

// DefaultRegistryRef is the registry_ref the in-process token registry is
// published under. Listings name their registry through this reference.
const DefaultRegistryRef = "token-registry"

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	registryRelay registryworkers.OutboxRelay
	marketRelay   marketworkers.OutboxRelay
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := tokenregistry.NewModule(tokenregistry.Dependencies{
		Tokens:      registryRepo,
		Approvals:   registryRepo,
		Clock:       registrypostgres.SystemClock{},
		IDGenerator: registrypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	directory := registryadapter.NewDirectory()
	directory.Register(DefaultRegistryRef, registryadapter.TokenRegistry{
		Service: registryModule.Service,
	})

	marketRepo := marketpostgres.NewRepository(pg.DB, logger)
	marketModule := listingmarketplace.NewModule(listingmarketplace.Dependencies{
		Listings:          marketRepo,
		Ledger:            marketRepo,
		Guard:             marketRepo,
		Registries:        directory,
		Clock:             marketpostgres.SystemClock{},
		IDGenerator:       marketpostgres.UUIDGenerator{},
		EscrowAccount:     cfg.EscrowAccount,
		FeeAccount:        cfg.FeeAccount,
		FeePercent:        cfg.FeePercent,
		RefundOverpayment: cfg.RefundOverpayment,
		Logger:            logger,
	})

	server := httpserver.New(registryModule, marketModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	marketRepo := marketpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		registryRelay: registryworkers.OutboxRelay{
			Outbox:    registryRepo,
			Publisher: kafka,
			Clock:     registrypostgres.SystemClock{},
			Topic:     "registry.events",
			BatchSize: 100,
			Logger:    logger,
		},
		marketRelay: marketworkers.OutboxRelay{
			Outbox:    marketRepo,
			Publisher: kafka,
			Clock:     marketpostgres.SystemClock{},
			Topic:     "marketplace.events",
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.registryRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.marketRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
