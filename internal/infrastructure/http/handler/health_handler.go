package handler

import (
	"net/http"
	"time"

	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// BannerResponse is returned by GET /
type BannerResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthHandler serves liveness and banner endpoints
type HealthHandler struct {
	serviceName string
	version     string
	now         func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName, version string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		now:         time.Now,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC(),
	})
}

// Root handles GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, BannerResponse{
		Message: h.serviceName + " is running",
		Version: h.version,
	})
}
