package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
)

// ProductService is the product use-case surface the handlers depend on
type ProductService interface {
	ListProducts(ctx context.Context) ([]*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error)
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	UpdateProduct(ctx context.Context, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id int64) error
	AddStock(ctx context.Context, req *dto.AddStockRequest) (*dto.AddStockResponse, error)
}

// ProductHandler handles HTTP requests for products and stock
type ProductHandler struct {
	service ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, r, h.logger, decodeError(err))
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req dto.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, r, h.logger, decodeError(err))
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

// AddStock handles POST /stock/add
func (h *ProductHandler) AddStock(w http.ResponseWriter, r *http.Request) {
	var req dto.AddStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.logger, decodeError(err))
		return
	}

	result, err := h.service.AddStock(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}
