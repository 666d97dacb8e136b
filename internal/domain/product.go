package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product on the cafe menu and its stock level
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Price       Money     `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// ProductDraft carries the caller-supplied fields of a new product
type ProductDraft struct {
	Name        string
	Price       decimal.Decimal
	Quantity    int
	Description string
	Category    string
	Image       string
}

// NewProduct creates a new product with validation
func NewProduct(id int64, draft ProductDraft, now time.Time) (*Product, error) {
	product := &Product{
		ID:          id,
		Name:        strings.TrimSpace(draft.Name),
		Price:       NewMoney(draft.Price),
		Quantity:    draft.Quantity,
		Description: draft.Description,
		Category:    draft.Category,
		Image:       draft.Image,
		CreatedAt:   now,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return invalidArgument("product name is required")
	}
	if p.Price.IsNegative() {
		return invalidArgument("product price must be a non-negative number")
	}
	if p.Quantity < 0 {
		return invalidArgument("product quantity cannot be negative")
	}
	return nil
}

// Worth is the stock value of the product, quantity times price.
func (p *Product) Worth() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// ProductPatch enumerates the fields an update may change. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	Category    *string
	Image       *string
}

// Empty reports whether the patch changes nothing.
func (pp ProductPatch) Empty() bool {
	return pp.Name == nil && pp.Price == nil && pp.Quantity == nil &&
		pp.Description == nil && pp.Category == nil && pp.Image == nil
}

// Validate checks every present field without touching any product.
func (pp ProductPatch) Validate() error {
	if pp.Name != nil && strings.TrimSpace(*pp.Name) == "" {
		return invalidArgument("product name cannot be empty")
	}
	if pp.Price != nil && pp.Price.IsNegative() {
		return invalidArgument("product price must be a non-negative number")
	}
	if pp.Quantity != nil && *pp.Quantity < 0 {
		return invalidArgument("product quantity cannot be negative")
	}
	return nil
}

// Apply validates the patch and then merges it into p field by field.
func (pp ProductPatch) Apply(p *Product, now time.Time) error {
	if err := pp.Validate(); err != nil {
		return err
	}

	if pp.Name != nil {
		p.Name = strings.TrimSpace(*pp.Name)
	}
	if pp.Price != nil {
		p.Price = NewMoney(*pp.Price)
	}
	if pp.Quantity != nil {
		p.Quantity = *pp.Quantity
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.Category != nil {
		p.Category = *pp.Category
	}
	if pp.Image != nil {
		p.Image = *pp.Image
	}
	p.UpdatedAt = now
	return nil
}
