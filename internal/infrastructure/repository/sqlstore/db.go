package sqlstore

import (
	"fmt"
	"time"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database, instruments it with OpenTelemetry,
// configures the connection pool and bootstraps the products table.
func Open(cfg *config.DatabaseConfig, tp trace.TracerProvider) (*gorm.DB, error) {
	dialector, err := buildDialector(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // request logging goes through slog
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithTracerProvider(tp),
		otelgorm.WithDBName(cfg.Driver),
	)); err != nil {
		return nil, fmt.Errorf("database: register tracing plugin: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer; one connection avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the products table with its constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return fmt.Errorf("database: migrate products: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q (supported: memory, sqlite, postgres)", driver)
	}
}
