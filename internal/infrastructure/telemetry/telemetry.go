package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
)

// Version is reported in the resource attributes and the root banner
const Version = "1.0.0"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
	// MetricsHandler serves the Prometheus exposition of every instrument
	MetricsHandler http.Handler

	conn *grpc.ClientConn
}

// NewTelemetry initializes tracing and metrics with OTLP export plus the Prometheus endpoint
func NewTelemetry(cfg *config.OTLPConfig) (*Telemetry, error) {
	ctx := context.Background()
	logger := initLogger(cfg, os.Stdout)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	res, err := newResource(ctx, cfg, Version)
	if err != nil {
		return nil, err
	}

	conn, err := newCollectorConn(cfg)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	logger.Info("Tracer provider initialized successfully")

	reg := newPrometheusRegistry()
	mp, err := initMeterProvider(ctx, conn, res, reg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over
// OTLP. Spans are still created and Prometheus metrics still work.
func NewNoOpTelemetry(cfg *config.OTLPConfig) *Telemetry {
	logger := initLogger(cfg, os.Stdout)

	tp := sdktrace.NewTracerProvider()

	reg := newPrometheusRegistry()
	mp, err := initMeterProvider(context.Background(), nil, nil, reg)
	if err != nil {
		logger.Warn("Prometheus exporter unavailable, metrics disabled",
			slog.String("error", err.Error()),
		)
		mp = metric.NewMeterProvider()
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
}

// Shutdown flushes and stops all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
