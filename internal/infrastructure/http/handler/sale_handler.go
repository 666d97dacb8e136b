package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
)

// SaleService is the sale use-case surface the handlers depend on
type SaleService interface {
	ListSales(ctx context.Context) ([]*dto.SaleResponse, error)
	ProcessSale(ctx context.Context, lines []domain.LineRequest) (*dto.SaleResponse, error)
}

// SaleHandler handles HTTP requests for sales
type SaleHandler struct {
	service SaleService
	logger  *slog.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(service SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger,
	}
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.service.ListSales(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, sales)
}

// CreateSale handles POST /sales with a single line or an array of lines
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, h.logger, decodeError(err))
		return
	}

	lines, err := dto.ParseSaleRequest(body)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sale, err := h.service.ProcessSale(r.Context(), lines)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusCreated, sale)
}
