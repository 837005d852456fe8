package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jsamuelsen/customer-service/internal/platform/config"
)

const slowQueryThreshold = 200 * time.Millisecond

// Database holds the gorm handle shared by the repositories.
type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to PostgreSQL using cfg.DSN.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Database, error) {
	return Open(ctx, postgres.Open(cfg.DSN), cfg, log)
}

// Open connects through an arbitrary dialector, applies the pool settings,
// registers tracing and, when enabled, migrates the schema.
func Open(ctx context.Context, dialector gorm.Dialector, cfg config.DatabaseConfig, log *slog.Logger) (*Database, error) {
	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(log, cfg.LogLevel),
		SkipDefaultTransaction: true,
		TranslateError:         true,
		DisableAutomaticPing:   true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
		return nil, fmt.Errorf("registering tracing plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &Database{DB: db}

	if cfg.AutoMigrate {
		if err := d.AutoMigrate(ctx); err != nil {
			return nil, err
		}

		log.Info("database schema migrated")
	}

	return d, nil
}

// AutoMigrate creates or alters every table to match the models.
func (d *Database) AutoMigrate(ctx context.Context) error {
	if err := d.DB.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}

	return sqlDB.Close()
}

// Name implements ports.HealthChecker.
func (d *Database) Name() string {
	return "database"
}

// Check pings the database.
func (d *Database) Check(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

func newGormLogger(log *slog.Logger, level string) logger.Interface {
	return logger.NewSlogLogger(log.With(slog.String("component", "gorm")), logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  gormLogLevel(level),
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
