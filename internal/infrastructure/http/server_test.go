package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mrops-br/inventory-api/internal/app/service"
	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventory-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/inventory-api/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTestServer(t *testing.T, origins ...string) http.Handler {
	t.Helper()

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		CORS:   config.CORSConfig{AllowedOrigins: origins},
	}

	logger := slog.New(slog.DiscardHandler)
	telem := &telemetry.Telemetry{
		TracerProvider: sdktrace.NewTracerProvider(),
		MeterProvider:  metric.NewMeterProvider(),
		Logger:         logger,
	}

	tracer := telem.TracerProvider.Tracer("test")
	repo := memory.NewProductRepository(tracer, logger)
	svc := service.NewProductService(repo, tracer, telem.MeterProvider.Meter("test"), logger)

	return NewServer(cfg, handler.NewProductHandler(svc, logger), logger, telem).Handler()
}

func TestServerRoutes(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to Inventory Management System API"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := `{"name":"Widget","price":9.99,"quantity":5,"category":"Tools","sku":"W-001"}`
	req := httptest.NewRequest(http.MethodPost, "/products/", strings.NewReader(body))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerCORSPreflight(t *testing.T) {
	h := newTestServer(t, "https://shop.example")

	req := httptest.NewRequest(http.MethodOptions, "/products/1", nil)
	req.Header.Set("Origin", "https://shop.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
