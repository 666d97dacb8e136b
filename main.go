package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrops-br/cafe-inventory-api/internal/app/service"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/config"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/repository/file"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/repository/memory"
	redisrepo "github.com/mrops-br/cafe-inventory-api/internal/infrastructure/repository/redis"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize OpenTelemetry
	var telem *telemetry.Telemetry
	if cfg.OTLP.Enabled {
		telem, err = telemetry.NewTelemetry(&cfg.OTLP)
		if err != nil {
			log.Fatalf("Failed to initialize telemetry: %v", err)
		}
	} else {
		telem = telemetry.NewNoOpTelemetry(&cfg.OTLP)
	}

	// Ensure telemetry is shutdown on exit
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := telem.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	// Get tracer, meter, and logger instances
	tracer := telem.TracerProvider.Tracer("cafe-inventory-api")
	meter := telem.MeterProvider.Meter("cafe-inventory-api")
	logger := telem.Logger

	logger.Info("Starting Cafe Inventory API", slog.String("config", cfg.String()))

	repo, closeRepo, err := newRepository(&cfg.Storage, tracer, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		return
	}
	defer closeRepo()

	// Initialize services (dependency injection)
	store := service.NewStore(repo, tracer, logger)
	productService := service.NewProductService(store, tracer, meter, logger)
	saleService := service.NewSaleService(store, tracer, meter, logger)
	reportService := service.NewReportService(store, tracer, meter, logger)

	// Initialize HTTP server
	server := http.NewServer(&cfg.Server, http.Handlers{
		Products: handler.NewProductHandler(productService, logger),
		Sales:    handler.NewSaleHandler(saleService, logger),
		Reports:  handler.NewReportHandler(reportService, logger),
		Health:   handler.NewHealthHandler(cfg.OTLP.ServiceName, telemetry.Version),
	}, logger, telem)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", slog.String("error", err.Error()))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("Server stopped")
}

// newRepository selects the snapshot storage configured by storage.driver
func newRepository(cfg *config.StorageConfig, tracer trace.Tracer, logger *slog.Logger) (domain.SnapshotRepository, func(), error) {
	switch cfg.Driver {
	case "memory":
		return memory.NewSnapshotRepository(tracer, logger), func() {}, nil

	case "file":
		repo, err := file.NewSnapshotRepository(cfg.Dir, file.Layout(cfg.Layout), tracer, logger)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Error("Failed to close redis client", slog.String("error", err.Error()))
			}
		}
		if err := client.Ping(context.Background()).Err(); err != nil {
			closeClient()
			return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return redisrepo.NewSnapshotRepository(client, cfg.RedisPrefix, tracer, logger), closeClient, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
