package telemetry

import (
	"context"
	"io"
	"log/slog"

	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/config"
	"go.opentelemetry.io/otel/trace"
)

type routeKey struct{}

// WithHTTPRoute records the matched route pattern for loggers further down the request
func WithHTTPRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// HTTPRouteFromContext returns the route stored by WithHTTPRoute, or ""
func HTTPRouteFromContext(ctx context.Context) string {
	route, _ := ctx.Value(routeKey{}).(string)
	return route
}

// requestContextHandler decorates records with the request-scoped values
// found in the context: trace and span ids of a sampled span and the route.
type requestContextHandler struct {
	slog.Handler
}

func (h requestContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", spanCtx.TraceID().String()),
			slog.String("span_id", spanCtx.SpanID().String()),
		)
		if !spanCtx.IsSampled() {
			r.AddAttrs(slog.Bool("trace_sampled", false))
		}
	}
	if route := HTTPRouteFromContext(ctx); route != "" {
		r.AddAttrs(slog.String("http.route", route))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestContextHandler) WithGroup(name string) slog.Handler {
	return requestContextHandler{h.Handler.WithGroup(name)}
}

// parseLevel maps the configured level name; unknown names fall back to info
func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// initLogger builds the JSON logger shared by every layer. Resource keys
// use the same names as the OTel resource so logs and traces join up.
func initLogger(cfg *config.OTLPConfig, w io.Writer) *slog.Logger {
	handler := requestContextHandler{
		Handler: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}),
	}

	return slog.New(handler).With(
		slog.String("service.name", cfg.ServiceName),
		slog.String("service.version", Version),
		slog.String("deployment.environment", cfg.Environment),
	)
}
