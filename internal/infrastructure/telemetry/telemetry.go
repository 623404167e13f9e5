package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const serviceVersion = "1.0.0"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
}

// NewTelemetry initializes tracing and metrics with OTLP export. Metrics are
// also exposed through the Prometheus reader served on /metrics.
func NewTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	ctx := context.Background()

	logger := initLogger(cfg)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Tracer provider initialized successfully")

	mp, err := initMeterProvider(ctx, cfg, res)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to initialize meter provider: %w", err),
			tp.Shutdown(ctx),
		)
	}

	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over
// OTLP. Spans are still created so logs keep their trace ids, and the
// Prometheus reader keeps /metrics working.
func NewNoOpTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	ctx := context.Background()
	logger := initLogger(cfg)

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))

	promReader, err := newPrometheusReader()
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(
		metric.WithReader(promReader),
		metric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
	}, nil
}

// Shutdown gracefully shuts down all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}

func newResource(ctx context.Context, cfg *config.OTLPConfig) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
