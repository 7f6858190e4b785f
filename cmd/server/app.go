package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockpile/stockpile-api/internal/config"
	"github.com/stockpile/stockpile-api/internal/platform/cache"
	"github.com/stockpile/stockpile-api/internal/platform/memory"
	"github.com/stockpile/stockpile-api/internal/platform/mongodb"
	"github.com/stockpile/stockpile-api/internal/platform/postgres"
	"github.com/stockpile/stockpile-api/internal/redact"
	"github.com/stockpile/stockpile-api/internal/service"
	"github.com/stockpile/stockpile-api/internal/service/auth"
	"github.com/stockpile/stockpile-api/internal/store"
)

// closeTimeout bounds closing the store and cache connections.
const closeTimeout = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// backend is the single store client, shared by every service.
	backend store.Backend

	// limiter is nil when rate limiting is disabled.
	limiter *cache.Cache

	jwtService        auth.JWTService
	inventoryService  service.InventoryService
	newsletterService service.NewsletterService
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.backend, err = openBackend(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	app.inventoryService, err = service.NewInventoryService(app.backend, service.InventoryOptions{
		OperationTimeout: cfg.Database.OperationTimeout,
		MaxPageSize:      cfg.Inventory.MaxPageSize,
	}, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create inventory service: %w", err)
	}

	app.newsletterService, err = service.NewNewsletterService(app.backend, cfg.Database.OperationTimeout, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create newsletter service: %w", err)
	}

	if cfg.Redis.URL != "" {
		app.limiter, err = cache.New(ctx, cfg.Redis.URL)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info("Rate limiting enabled",
			"rps", cfg.Redis.RateLimitRPS,
			"burst", cfg.Redis.RateLimitBurst)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// openBackend connects the store selected by cfg.Driver. PostgreSQL schemas
// are migrated first when AutoMigrate is set.
func openBackend(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.Backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		backend, err := mongodb.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		logger.Info("Database connection established", "driver", cfg.Driver, "database", cfg.Name)
		return backend, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
				if closeErr := db.Close(); closeErr != nil {
					logger.Error("Error closing database connection", "error", redact.Error(closeErr))
				}
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		logger.Info("Database connection established", "driver", cfg.Driver)
		return postgres.NewStore(db, logger), nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(logger), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if app.limiter != nil {
		if err := app.limiter.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", redact.Error(err))
		}
	}

	if app.backend != nil {
		if err := app.backend.Close(ctx); err != nil {
			app.logger.Error("Error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
