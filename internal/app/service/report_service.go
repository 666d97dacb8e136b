package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ReportService derives reports from the current snapshot. Nothing is cached.
type ReportService struct {
	store            *Store
	tracer           trace.Tracer
	logger           *slog.Logger
	reportsGenerated metric.Int64Counter
}

// NewReportService creates a new report service
func NewReportService(
	store *Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ReportService {
	reportsGenerated, _ := meter.Int64Counter(
		"reports.generated.total",
		metric.WithDescription("Total number of reports generated"),
	)

	return &ReportService{
		store:            store,
		tracer:           tracer,
		logger:           logger,
		reportsGenerated: reportsGenerated,
	}
}

// LowStock lists products whose quantity is below threshold
func (s *ReportService) LowStock(ctx context.Context, threshold int) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.LowStock")
	defer span.End()

	span.SetAttributes(attribute.Int("report.threshold", threshold))

	var products []*dto.ProductResponse
	err := s.store.View(ctx, func(snap *domain.Snapshot) error {
		products = dto.ToProductResponseList(snap.LowStock(threshold))
		return nil
	})
	recordOutcome(ctx, span, s.reportsGenerated, "lowstock", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate low stock report",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Low stock report generated",
		slog.Int("threshold", threshold),
		slog.Int("count", len(products)),
	)
	return products, nil
}

// Summary aggregates stock worth, sales volume and per-product sales
func (s *ReportService) Summary(ctx context.Context) (*dto.SummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ReportService.Summary")
	defer span.End()

	var summary *dto.SummaryResponse
	err := s.store.View(ctx, func(snap *domain.Snapshot) error {
		summary = dto.ToSummaryResponse(snap.Summarize())
		return nil
	})
	recordOutcome(ctx, span, s.reportsGenerated, "summary", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate summary report",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return summary, nil
}
