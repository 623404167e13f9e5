package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/inventory-api/internal/infrastructure/http/response"
	"github.com/mrops-br/inventory-api/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const meterName = "inventory-api"

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	config     *config.ServerConfig
	cors       *config.CORSConfig
	handler    *handler.ProductHandler
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	handler *handler.ProductHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    &cfg.Server,
		cors:      &cfg.CORS,
		handler:   handler,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	// Structured JSON logging middleware (replaces chimiddleware.Logger)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(middleware.DefaultCORSOptions(s.cors.AllowedOrigins)))

	// Add HTTP route to context so all logs include it automatically
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter(meterName)
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
	s.router.Use(middleware.DurationMillisecondsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to Inventory Management System API",
		})
	})

	s.router.Route("/products", s.handler.Routes)

	// Health check endpoint
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Handler returns the router wrapped with otelhttp for automatic HTTP
// metrics and tracing (http.server.request.duration, body sizes, ...).
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		// Add route pattern to metrics attributes
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
