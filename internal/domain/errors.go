package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Shortfall describes a product whose stock cannot cover a sale request.
type Shortfall struct {
	ProductID int64 `json:"productId"`
	Available int   `json:"available"`
	Requested int   `json:"requested"`
}

// InsufficientStockError lists every shortfall found while validating a sale.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("product %d: requested %d, available %d", s.ProductID, s.Requested, s.Available)
	}
	return fmt.Sprintf("%s (%s)", ErrInsufficientStock, strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func productNotFound(id int64) error {
	return fmt.Errorf("%w: product %d", ErrNotFound, id)
}
