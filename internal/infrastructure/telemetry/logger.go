package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mrops-br/inventory-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

type routeKey struct{}

// WithHTTPRoute stores a fixed route so request-scoped logs carry it.
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return WithHTTPRouteFunc(ctx, func() string { return route })
}

// WithHTTPRouteFunc stores a resolver that is called each time a record is
// logged, so a route matched after the context was built is still reported.
func WithHTTPRouteFunc(ctx context.Context, resolve func() string) context.Context {
	return context.WithValue(ctx, routeKey{}, resolve)
}

// HTTPRouteFromContext returns the route stored in ctx, or "".
func HTTPRouteFromContext(ctx context.Context) string {
	if resolve, ok := ctx.Value(routeKey{}).(func() string); ok {
		return resolve()
	}
	return ""
}

// traceContextHandler decorates records with trace_id, span_id and http.route
// taken from the context passed to the *Context logging methods.
type traceContextHandler struct {
	next slog.Handler
}

func (h *traceContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *traceContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}
	return h.next.Handle(ctx, r)
}

func (h *traceContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *traceContextHandler) WithGroup(name string) slog.Handler {
	return &traceContextHandler{next: h.next.WithGroup(name)}
}

func initLogger(cfg *config.OTLPConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

// newLogger builds the JSON logger every component shares. Each record is
// tagged with the service name and deployment environment.
func newLogger(w io.Writer, cfg *config.OTLPConfig) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	})

	return slog.New(&traceContextHandler{next: jsonHandler}).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
}

// parseLevel defaults to debug for empty or unknown values.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
