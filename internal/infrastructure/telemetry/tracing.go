package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var newTraceExporter = func(ctx context.Context, conn *grpc.ClientConn) (sdktrace.SpanExporter, error) {
	return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
}

// initTracerProvider initializes the OpenTelemetry tracer provider
func initTracerProvider(ctx context.Context, cfg *config.OTLPConfig, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	conn, err := newCollectorConn(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	exporter, err := newTraceExporter(ctx, conn)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create trace exporter: %w", err),
			conn.Close(),
		)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return tp, nil
}

func newCollectorConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}
	return conn, nil
}
