// Package main runs the customer service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsamuelsen/customer-service/internal/adapters/cache"
	"github.com/jsamuelsen/customer-service/internal/adapters/clients"
	"github.com/jsamuelsen/customer-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/customer-service/internal/adapters/events"
	"github.com/jsamuelsen/customer-service/internal/adapters/http"
	"github.com/jsamuelsen/customer-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/customer-service/internal/adapters/persistence"
	"github.com/jsamuelsen/customer-service/internal/app"
	"github.com/jsamuelsen/customer-service/internal/platform/config"
	"github.com/jsamuelsen/customer-service/internal/platform/logging"
	"github.com/jsamuelsen/customer-service/internal/platform/telemetry"
	"github.com/jsamuelsen/customer-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	// 5. Local store
	db, err := persistence.NewDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("database close error", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(db); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	var (
		countries    ports.CountryGateway     = persistence.NewCountryRepository(db.DB)
		languages    ports.LanguageGateway    = persistence.NewLanguageRepository(db.DB)
		contextTypes ports.ContextTypeGateway = persistence.NewContextTypeRepository(db.DB)
	)

	// 6. Reference data cache (optional)
	if cfg.Redis.Enabled {
		redisClient := cache.NewRedisClient(cfg.Redis)
		defer func() { _ = redisClient.Close() }()

		redisCache := cache.NewRedisCache(redisClient, cfg.Redis.KeyPrefix)
		if err := healthRegistry.Register(redisCache); err != nil {
			return fmt.Errorf("registering redis health check: %w", err)
		}

		countries = cache.NewCachedCountries(countries, redisCache, cfg.Redis.TTL, logger)
		languages = cache.NewCachedLanguages(languages, redisCache, cfg.Redis.TTL, logger)
		contextTypes = cache.NewCachedContextTypes(contextTypes, redisCache, cfg.Redis.TTL, logger)
	}

	countries = app.ScopedCountries(countries)
	languages = app.ScopedLanguages(languages)

	// 7. Change events (optional)
	var publisher ports.EventPublisher = ports.NopPublisher{}

	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
		defer func() {
			if closeErr := kafkaPublisher.Close(); closeErr != nil {
				logger.Error("kafka publisher close error", slog.Any("error", closeErr))
			}
		}()

		if err := healthRegistry.Register(kafkaPublisher); err != nil {
			return fmt.Errorf("registering kafka health check: %w", err)
		}

		publisher = kafkaPublisher
	}

	flags := ports.StaticFlags{
		ports.FlagForbidOrphanDelete: cfg.Customers.ForbidOrphanDelete,
		ports.FlagPublishEvents:      cfg.Kafka.Enabled,
	}

	// 8. Connect identity provider (ACL pattern)
	connectHTTP, err := clients.New(&clients.Config{
		BaseURL:     cfg.Connect.BaseURL,
		ServiceName: cfg.Connect.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		AuthFunc:    acl.NewTokenAuth(ctx, cfg.Connect, logger),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating connect client: %w", err)
	}

	connect := acl.NewConnectUserClient(acl.ConnectUserClientConfig{
		Client:    connectHTTP,
		Languages: languages,
		Logger:    logger,
	})

	if err := healthRegistry.Register(connect); err != nil {
		return fmt.Errorf("registering connect health check: %w", err)
	}

	// 9. Use cases
	users := persistence.NewUserRepository(db.DB)

	customerService := app.NewCustomerService(app.CustomerServiceConfig{
		Customers:    persistence.NewCustomerRepository(db.DB),
		Contexts:     persistence.NewContextRepository(db.DB),
		ContextTypes: contextTypes,
		Countries:    countries,
		Events:       publisher,
		Flags:        flags,
		Logger:       logger,
	})

	userService := app.NewUserService(app.UserServiceConfig{
		Users:     users,
		Languages: languages,
		Identity:  connect,
		Events:    publisher,
		Flags:     flags,
		Logger:    logger,
	})

	roleService := app.NewRoleService(persistence.NewRoleRepository(db.DB), logger)

	reconcileService := app.NewReconcileService(app.ReconcileServiceConfig{
		Users:       users,
		Identity:    connect,
		PageSize:    cfg.Reconcile.PageSize,
		Concurrency: cfg.Reconcile.Concurrency,
		Logger:      logger,
	})

	// 10. HTTP server
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:     cfg.App.Name,
		AuthConfig:      &cfg.Auth,
		Timeout:         http.DefaultRequestTimeout,
		HealthHandler:   handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		CustomerHandler: handlers.NewCustomerHandler(customerService, countries),
		UserHandler:     handlers.NewUserHandler(userService),
		RoleHandler:     handlers.NewRoleHandler(roleService),
		AdminHandler:    handlers.NewAdminHandler(reconcileService),
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		// Server error during startup or runtime
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	// Graceful shutdown sequence
	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
