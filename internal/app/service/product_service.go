package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProductService handles product and stock use cases
type ProductService struct {
	store                 *Store
	tracer                trace.Tracer
	logger                *slog.Logger
	now                   func() time.Time
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
	stockReceived         metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	store *Store,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	// Initialize metrics
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	stockReceived, _ := meter.Int64Counter(
		"stock.received.total",
		metric.WithDescription("Total units added to stock"),
		metric.WithUnit("{unit}"),
	)

	return &ProductService{
		store:                 store,
		tracer:                tracer,
		logger:                logger,
		now:                   time.Now,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
		stockReceived:         stockReceived,
	}
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) ([]*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	var products []*dto.ProductResponse
	err := s.store.View(ctx, func(snap *domain.Snapshot) error {
		products = dto.ToProductResponseList(snap.Products)
		return nil
	})
	recordOutcome(ctx, span, s.productOperations, "list", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list products",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.logger.InfoContext(ctx, "Products listed successfully",
		slog.Int("count", len(products)),
	)
	return products, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	var product *dto.ProductResponse
	err := s.store.View(ctx, func(snap *domain.Snapshot) error {
		p, err := snap.Product(id)
		if err != nil {
			return err
		}
		product = dto.ToProductResponse(p)
		return nil
	})
	recordOutcome(ctx, span, s.productOperations, "read", err)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	return product, nil
}

// CreateProduct creates a new product with a freshly assigned id
func (s *ProductService) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product.name", req.Name))

	s.logger.InfoContext(ctx, "Creating product",
		slog.String("name", req.Name),
	)

	var created *dto.ProductResponse
	err := func() error {
		draft, err := req.ToDraft()
		if err != nil {
			return err
		}
		return s.store.Update(ctx, func(snap *domain.Snapshot) error {
			now := s.now()
			product, err := domain.NewProduct(snap.NextProductID(now), draft, now)
			if err != nil {
				return err
			}
			if err := snap.AddProduct(product); err != nil {
				return err
			}
			created = dto.ToProductResponse(product)
			return nil
		})
	}()
	recordOutcome(ctx, span, s.productOperations, "create", err)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create product",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.productCreatedCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("product.id", created.ID))
	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", created.ID),
	)
	return created, nil
}

// UpdateProduct merges the provided fields into an existing product
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	var updated *dto.ProductResponse
	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		product, err := snap.UpdateProduct(id, req.ToPatch(), s.now())
		if err != nil {
			return err
		}
		updated = dto.ToProductResponse(product)
		return nil
	})
	recordOutcome(ctx, span, s.productOperations, "update", err)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)
	return updated, nil
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	err := s.store.Update(ctx, func(snap *domain.Snapshot) error {
		return snap.RemoveProduct(id)
	})
	recordOutcome(ctx, span, s.productOperations, "delete", err)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to delete product",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)
	return nil
}

// AddStock increases a product's quantity and returns the new quantity
func (s *ProductService) AddStock(ctx context.Context, req *dto.AddStockRequest) (*dto.AddStockResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ProductService.AddStock")
	defer span.End()

	var newQuantity int
	receipt, err := req.ToReceipt()
	if err == nil {
		span.SetAttributes(
			attribute.Int64("product.id", receipt.ProductID),
			attribute.Int("stock.delta", receipt.Quantity),
		)
		err = s.store.Update(ctx, func(snap *domain.Snapshot) error {
			product, err := snap.AddStock(receipt.ProductID, receipt.Quantity, s.now())
			if err != nil {
				return err
			}
			newQuantity = product.Quantity
			return nil
		})
	}
	recordOutcome(ctx, span, s.productOperations, "add_stock", err)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to add stock",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.stockReceived.Add(ctx, int64(receipt.Quantity))
	s.logger.InfoContext(ctx, "Stock updated successfully",
		slog.Int64("product_id", receipt.ProductID),
		slog.Int("new_quantity", newQuantity),
	)
	return &dto.AddStockResponse{
		Message:     "Stock updated successfully",
		NewQuantity: newQuantity,
	}, nil
}
