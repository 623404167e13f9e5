package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoggerInjectsTraceContextAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.OTLPConfig{ServiceName: "inventory-api", Environment: "test"})

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	ctx = WithHTTPRoute(ctx, "/products/{id}")
	logger.InfoContext(ctx, "hello")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "inventory-api", entry["service.name"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, "/products/{id}", entry["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
}

func TestLoggerWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.OTLPConfig{ServiceName: "inventory-api"})

	logger.WithGroup("g").Info("plain", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "trace_id")
	assert.NotContains(t, entry, "http.route")
	assert.Equal(t, HTTPRouteFromContext(context.Background()), "")
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.OTLPConfig{ServiceName: "inventory-api", LogLevel: "WARN"})

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)

	assert.Equal(t, slog.LevelDebug, parseLevel(""))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
}
