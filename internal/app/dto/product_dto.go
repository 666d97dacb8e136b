package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents the request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Price       *float64        `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

// ToDraft converts the request into a domain draft.
// Quantity is optional and defaults to zero when missing or unparseable.
func (r *CreateProductRequest) ToDraft() (domain.ProductDraft, error) {
	if r.Name == "" || r.Price == nil || *r.Price < 0 {
		return domain.ProductDraft{}, fmt.Errorf("%w: name is required and price must be a non-negative number", domain.ErrInvalidArgument)
	}

	quantity, _ := looseInt(r.Quantity)

	return domain.ProductDraft{
		Name:        r.Name,
		Price:       decimal.NewFromFloat(*r.Price),
		Quantity:    int(quantity),
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}, nil
}

// UpdateProductRequest represents a partial product update.
// JSON null and absent fields both mean "leave unchanged".
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
}

// ToPatch converts the request into a domain patch
func (r *UpdateProductRequest) ToPatch() domain.ProductPatch {
	patch := domain.ProductPatch{
		Name:        r.Name,
		Quantity:    r.Quantity,
		Description: r.Description,
		Category:    r.Category,
		Image:       r.Image,
	}
	if r.Price != nil {
		price := decimal.NewFromFloat(*r.Price)
		patch.Price = &price
	}
	return patch
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Price       domain.Money `json:"price"`
	Quantity    int          `json:"quantity"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Image       string       `json:"image,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt,omitzero"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}
