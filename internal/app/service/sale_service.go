package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// SaleService processes and lists sales
type SaleService struct {
	store          *Store
	tracer         trace.Tracer
	logger         *slog.Logger
	now            func() time.Time
	newID          func() string
	saleOperations metric.Int64Counter
	salesCompleted metric.Int64Counter
	itemsSold      metric.Int64Counter
}

// NewSaleService creates a new sale service
func NewSaleService(
	store *Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *SaleService {
	saleOperations, _ := meter.Int64Counter(
		"sales.operations",
		metric.WithDescription("Total number of sale operations"),
	)

	salesCompleted, _ := meter.Int64Counter(
		"sales.completed.total",
		metric.WithDescription("Total number of completed sales"),
	)

	itemsSold, _ := meter.Int64Counter(
		"sales.items.sold.total",
		metric.WithDescription("Total units sold"),
		metric.WithUnit("{unit}"),
	)

	return &SaleService{
		store:          store,
		tracer:         tracer,
		logger:         logger,
		now:            time.Now,
		newID:          uuid.NewString,
		saleOperations: saleOperations,
		salesCompleted: salesCompleted,
		itemsSold:      itemsSold,
	}
}

// ListSales retrieves all sales in the order they were recorded
func (s *SaleService) ListSales(ctx context.Context) ([]*dto.SaleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.ListSales")
	defer span.End()

	var sales []*dto.SaleResponse
	err := s.store.View(ctx, func(snap *domain.Snapshot) error {
		sales = dto.ToSaleResponseList(snap.Sales)
		return nil
	})
	recordOutcome(ctx, span, s.saleOperations, "list", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list sales",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("sale.count", len(sales)))
	return sales, nil
}

// ProcessSale validates every line against current stock and, only if all
// of them can be served, decrements stock and records the sale.
func (s *SaleService) ProcessSale(ctx context.Context, lines []domain.LineRequest) (*dto.SaleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.ProcessSale")
	defer span.End()

	span.SetAttributes(attribute.Int("sale.lines", len(lines)))

	s.logger.InfoContext(ctx, "Processing sale",
		slog.Int("lines", len(lines)),
	)

	var sale *domain.Sale
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		var err error
		sale, err = snap.ApplySale(lines, s.newID(), s.now())
		return err
	})
	recordOutcome(ctx, span, s.saleOperations, "create", err)
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			s.logger.WarnContext(ctx, "Sale rejected for insufficient stock",
				slog.Any("shortfalls", stockErr.Shortfalls),
			)
		} else {
			s.logger.WarnContext(ctx, "Failed to process sale",
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.salesCompleted.Add(ctx, 1)
	s.itemsSold.Add(ctx, int64(sale.ItemCount()))

	span.SetAttributes(
		attribute.String("sale.id", sale.ID),
		attribute.String("sale.total", sale.Total.String()),
	)
	s.logger.InfoContext(ctx, "Sale recorded successfully",
		slog.String("sale_id", sale.ID),
		slog.String("total", sale.Total.String()),
	)
	return dto.ToSaleResponse(sale), nil
}
