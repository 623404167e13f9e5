package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mrops-br/inventory-api/internal/app/service"
	"github.com/mrops-br/inventory-api/internal/domain"
	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventory-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/inventory-api/internal/infrastructure/repository/sqlstore"
	"github.com/mrops-br/inventory-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "inventory-api"

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize OpenTelemetry
	var (
		telem *telemetry.Telemetry
		err   error
	)
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP)
	} else {
		telem, err = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	tracer := telem.TracerProvider.Tracer(instrumentationName)
	meter := telem.MeterProvider.Meter(instrumentationName)
	logger := telem.Logger

	logger.Info("Starting Inventory API",
		slog.String("database_driver", cfg.Database.Driver),
	)

	repo, closeRepo, err := newRepository(&cfg.Database, telem, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize product store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	productService := service.NewProductService(repo, tracer, meter, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	server := http.NewServer(cfg, productHandler, logger, telem)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down server...")
	case <-ctx.Done():
		logger.Info("Context cancelled, shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// newRepository builds the record store selected by DATABASE_DRIVER and
// returns a func that releases it.
func newRepository(
	cfg *config.DatabaseConfig,
	telem *telemetry.Telemetry,
	tracer trace.Tracer,
	logger *slog.Logger,
) (domain.ProductRepository, func(), error) {
	if cfg.Driver == "memory" {
		return memory.NewProductRepository(tracer, logger), func() {}, nil
	}

	db, err := sqlstore.Open(cfg, telem.TracerProvider)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
	}

	closeFn := func() {
		if err := sqlstore.Close(db); err != nil {
			logger.Error("Failed to close database", slog.String("error", err.Error()))
		}
	}
	return sqlstore.NewProductRepository(db, tracer, logger), closeFn, nil
}
