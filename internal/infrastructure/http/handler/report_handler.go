package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mrops-br/cafe-inventory-api/internal/app/dto"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
)

// ReportService is the reporting surface the handlers depend on
type ReportService interface {
	LowStock(ctx context.Context, threshold int) ([]*dto.ProductResponse, error)
	Summary(ctx context.Context) (*dto.SummaryResponse, error)
}

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	service ReportService
	logger  *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// LowStock handles GET /reports/lowstock?threshold=N
func (h *ReportHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := dto.ParseThreshold(r.URL.Query().Get("threshold"))

	products, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, products)
}

// Summary handles GET /reports/summary
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
