package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/config"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Handlers groups the endpoint handlers mounted by the server
type Handlers struct {
	Products *handler.ProductHandler
	Sales    *handler.SaleHandler
	Reports  *handler.ReportHandler
	Health   *handler.HealthHandler
}

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	config     *config.ServerConfig
	handlers   Handlers
	logger     *slog.Logger
	telemetry  *telemetry.Telemetry
	httpServer *http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	handlers Handlers,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		handlers:  handlers,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	// Structured JSON logging middleware (replaces chimiddleware.Logger)
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Use(middleware.BodyLimit(s.config.BodyLimitBytes))

	meter := s.telemetry.MeterProvider.Meter("cafe-inventory-api")
	s.router.Use(middleware.ActiveRequests(meter))

	if s.config.DurationMetricMS {
		s.router.Use(middleware.DurationMilliseconds(meter))
	}
}

// setupRoutes configures the API routes. Routes are flat so that the
// inline route middleware sees the fully resolved pattern.
func (s *Server) setupRoutes() {
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.HTTPRouteContext)

		r.Get("/", s.handlers.Health.Root)
		r.Get("/health", s.handlers.Health.Health)

		r.Get("/products", s.handlers.Products.ListProducts)
		r.Post("/products", s.handlers.Products.CreateProduct)
		r.Get("/products/{id}", s.handlers.Products.GetProduct)
		r.Put("/products/{id}", s.handlers.Products.UpdateProduct)
		r.Delete("/products/{id}", s.handlers.Products.DeleteProduct)

		r.Post("/stock/add", s.handlers.Products.AddStock)

		r.Get("/sales", s.handlers.Sales.ListSales)
		r.Post("/sales", s.handlers.Sales.CreateSale)

		r.Get("/reports/lowstock", s.handlers.Reports.LowStock)
		r.Get("/reports/summary", s.handlers.Reports.Summary)
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Method(http.MethodGet, "/metrics", s.telemetry.MetricsHandler)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, fmt.Errorf("route %s %s not found", r.Method, r.URL.Path))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed on %s", r.Method, r.URL.Path))
	})
}

// Handler returns the router wrapped with otelhttp for automatic HTTP
// metrics and tracing (http.server.request.duration, body sizes, ...)
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithTracerProvider(s.telemetry.TracerProvider),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("http.route", middleware.RoutePattern(r)),
			}
		}),
	)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		slog.String("address", s.httpServer.Addr),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
