package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	lifecycleservice "scribe/contexts/document-lifecycle/lifecycle-service"
	lifecyclepostgres "scribe/contexts/document-lifecycle/lifecycle-service/adapters/postgres"
	lifecycleworkers "scribe/contexts/document-lifecycle/lifecycle-service/application/workers"
	authorization "scribe/contexts/identity-access/authorization-service"
	authmemory "scribe/contexts/identity-access/authorization-service/adapters/memory"
	authpostgres "scribe/contexts/identity-access/authorization-service/adapters/postgres"
	authqueries "scribe/contexts/identity-access/authorization-service/application/queries"
	authentities "scribe/contexts/identity-access/authorization-service/domain/entities"
	"scribe/internal/platform/config"
	"scribe/internal/platform/db"
	"scribe/internal/platform/httpserver"
	"scribe/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  lifecycleworkers.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

// permissionGuard bridges the lifecycle Guard port onto the authorization
// module. Lookup failures inside the check resolve to deny, never to an
// error surfaced to transitions.
type permissionGuard struct {
	check authqueries.CheckPermissionUseCase
}

func (g permissionGuard) HasPermission(ctx context.Context, actorID string, workspaceID string, permission string) (bool, error) {
	decision, err := g.check.Execute(ctx, authqueries.CheckPermissionQuery{
		UserID:      actorID,
		WorkspaceID: workspaceID,
		Permission:  permission,
	})
	if err != nil {
		return false, err
	}
	return decision.Allowed, nil
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

	authRepo := authpostgres.NewRepository(pg.DB, logger)
	if cfg.AutoMigrate {
		if err := lifecyclepostgres.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := authpostgres.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		if err := authRepo.SeedRoles(context.Background(), authentities.DefaultRoles()); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	authModule := authorization.NewModule(authorization.Dependencies{
		Repository:         authRepo,
		PermissionCache:    authmemory.NewPermissionCache(),
		Clock:              authpostgres.SystemClock{},
		IDGenerator:        authpostgres.UUIDGenerator{},
		PermissionCacheTTL: 5 * time.Minute,
		Logger:             logger,
	})

	lifecycleModule := lifecycleservice.NewModule(lifecycleservice.Dependencies{
		Repository:       lifecyclepostgres.NewRepository(pg.DB, logger),
		Guard:            permissionGuard{check: authModule.CheckPermission},
		Clock:            lifecyclepostgres.SystemClock{},
		IDGen:            lifecyclepostgres.UUIDGenerator{},
		CancelPermission: cfg.CancelPermission,
		Logger:           logger,
	})

	server := httpserver.New(lifecycleModule, authModule, logger, normalizeAddr(cfg.HTTPPort))
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

	repo := lifecyclepostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: lifecycleworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     lifecyclepostgres.SystemClock{},
			Topic:     "document.lifecycle",
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
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
		"relay_enabled", w.relayEnabled,
	)

	for {
		if w.relayEnabled {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
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
