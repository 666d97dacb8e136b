package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"github.com/mrops-br/cafe-inventory-api/internal/infrastructure/http/response"
)

// writeError maps a service error onto a status code and JSON body
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var stockErr *domain.InsufficientStockError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &stockErr):
		response.ErrorWithDetails(w, http.StatusBadRequest, "insufficient_stock", "Insufficient stock", stockErr.Shortfalls)
	case errors.As(err, &maxBytesErr):
		response.Error(w, http.StatusRequestEntityTooLarge, err)
	case errors.Is(err, domain.ErrInvalidArgument):
		response.Error(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, err)
	default:
		logger.ErrorContext(r.Context(), "Request failed",
			slog.String("error", err.Error()),
		)
		// storage details stay in the logs
		response.Error(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

// productID parses the {id} path parameter
func productID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product id %q", domain.ErrInvalidArgument, raw)
	}
	return id, nil
}

// decodeError wraps a request body decoding failure
func decodeError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidArgument, err)
}
