package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc"
)

var newMetricExporter = func(ctx context.Context, conn *grpc.ClientConn) (metric.Exporter, error) {
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
}

// initMeterProvider initializes the meter provider with two readers: a
// periodic OTLP exporter and the Prometheus pull exporter.
func initMeterProvider(ctx context.Context, cfg *config.OTLPConfig, res *resource.Resource) (*metric.MeterProvider, error) {
	conn, err := newCollectorConn(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	exporter, err := newMetricExporter(ctx, conn)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create metric exporter: %w", err),
			conn.Close(),
		)
	}

	promReader, err := newPrometheusReader()
	if err != nil {
		return nil, errors.Join(err, exporter.Shutdown(ctx), conn.Close())
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithReader(promReader),
		metric.WithResource(res),
	)

	return mp, nil
}

// newPrometheusReader registers with the default Prometheus registry, which
// promhttp.Handler serves.
func newPrometheusReader() (metric.Reader, error) {
	reader, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	return reader, nil
}
