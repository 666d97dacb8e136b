package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// RoutePattern returns the matched chi route pattern, or the raw path while routing is unresolved
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func requestAttrs(r *http.Request) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("http.route", RoutePattern(r)),
		attribute.String("server.address", r.Host),
	}
}

// ActiveRequests tracks in-flight requests with an UpDownCounter.
// The route is resolved lazily on first write, once chi has matched it.
func ActiveRequests(meter metric.Meter) func(next http.Handler) http.Handler {
	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &trackingWriter{ResponseWriter: w, request: r, counter: activeRequests}
			defer tw.done()

			next.ServeHTTP(tw, r)
		})
	}
}

// trackingWriter increments on the first write and decrements once the
// handler returns, always with the same attribute set.
type trackingWriter struct {
	http.ResponseWriter
	request *http.Request
	counter metric.Int64UpDownCounter
	attrs   []attribute.KeyValue
}

func (w *trackingWriter) WriteHeader(statusCode int) {
	w.begin()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.begin()
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) begin() {
	if w.attrs != nil {
		return
	}
	w.attrs = requestAttrs(w.request)
	w.counter.Add(w.request.Context(), 1, metric.WithAttributes(w.attrs...))
}

func (w *trackingWriter) done() {
	w.begin()
	w.counter.Add(w.request.Context(), -1, metric.WithAttributes(w.attrs...))
}

// DurationMilliseconds records request duration in milliseconds, next to
// the seconds-based histogram otelhttp already reports.
func DurationMilliseconds(meter metric.Meter) func(next http.Handler) http.Handler {
	durationHistogram, err := meter.Float64Histogram(
		"http.server.request.duration.ms",
		metric.WithDescription("HTTP server request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return passThrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			attrs := append(requestAttrs(r), attribute.Int("http.response.status_code", ww.Status()))
			durationHistogram.Record(r.Context(), float64(time.Since(start).Milliseconds()),
				metric.WithAttributes(attrs...),
			)
		})
	}
}

// HTTPRouteContext puts the route pattern into the request context so every
// log line written while handling the request carries http.route, and
// renames the server span after the route.
// Register it inline (chi With/Group) so the pattern is already resolved.
func HTTPRouteContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := RoutePattern(r)

		span := trace.SpanFromContext(r.Context())
		span.SetName(r.Method + " " + route)
		span.SetAttributes(attribute.String("http.route", route))

		ctx := telemetry.WithHTTPRoute(r.Context(), route)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BodyLimit caps request bodies at limit bytes
func BodyLimit(limit int64) func(next http.Handler) http.Handler {
	if limit <= 0 {
		return passThrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// StructuredLogger logs one JSON line per completed request, replacing chi's text logger.
// Trace ids are added by the telemetry handler from the request context.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			attrs := []any{
				slog.String("http.request.method", r.Method),
				slog.String("http.route", RoutePattern(r)),
				slog.String("url.path", r.URL.Path),
				slog.String("url.query", r.URL.RawQuery),
				slog.Int("http.response.status_code", ww.Status()),
				slog.Int("http.response.body.size", ww.BytesWritten()),
				slog.String("duration", duration.String()),
				slog.Float64("duration_ms", float64(duration.Milliseconds())),
				slog.String("client.address", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				attrs = append(attrs, slog.String("request_id", reqID))
			}

			level := slog.LevelInfo
			switch {
			case ww.Status() >= 500:
				level = slog.LevelError
			case ww.Status() >= 400:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "HTTP request completed", attrs...)
		})
	}
}

func passThrough(next http.Handler) http.Handler { return next }
