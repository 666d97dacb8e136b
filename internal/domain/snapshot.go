package domain

import (
	"math"
	"slices"
	"time"
)

// Snapshot is the complete inventory state: every product and every sale.
type Snapshot struct {
	Products []Product `json:"products"`
	Sales    []Sale    `json:"sales"`
}

// NewSnapshot returns an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Products: []Product{},
		Sales:    []Sale{},
	}
}

// Normalize replaces nil slices so the snapshot always encodes as arrays.
func (s *Snapshot) Normalize() *Snapshot {
	if s.Products == nil {
		s.Products = []Product{}
	}
	if s.Sales == nil {
		s.Sales = []Sale{}
	}
	return s
}

// Clone returns a deep copy of the snapshot
func (s *Snapshot) Clone() *Snapshot {
	clone := &Snapshot{
		Products: slices.Clone(s.Products),
		Sales:    make([]Sale, len(s.Sales)),
	}
	for i, sale := range s.Sales {
		sale.Items = slices.Clone(sale.Items)
		clone.Sales[i] = sale
	}
	return clone.Normalize()
}

func (s *Snapshot) productIndex(id int64) int {
	return slices.IndexFunc(s.Products, func(p Product) bool { return p.ID == id })
}

// Product returns the product with the given id
func (s *Snapshot) Product(id int64) (*Product, error) {
	i := s.productIndex(id)
	if i < 0 {
		return nil, productNotFound(id)
	}
	return &s.Products[i], nil
}

// NextProductID derives a new id from the clock, bumped past every existing id.
func (s *Snapshot) NextProductID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, p := range s.Products {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	return id
}

// AddProduct appends a validated product
func (s *Snapshot) AddProduct(product *Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	s.Products = append(s.Products, *product)
	return nil
}

// UpdateProduct applies a patch to the product with the given id.
// An empty patch leaves the product, including UpdatedAt, as it was.
func (s *Snapshot) UpdateProduct(id int64, patch ProductPatch, now time.Time) (*Product, error) {
	product, err := s.Product(id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return product, nil
	}
	if err := patch.Apply(product, now); err != nil {
		return nil, err
	}
	return product, nil
}

// RemoveProduct hard-deletes the product with the given id
func (s *Snapshot) RemoveProduct(id int64) error {
	i := s.productIndex(id)
	if i < 0 {
		return productNotFound(id)
	}
	s.Products = slices.Delete(s.Products, i, i+1)
	return nil
}

// AddStock increases the quantity of a product by a positive delta
func (s *Snapshot) AddStock(id int64, delta int, now time.Time) (*Product, error) {
	if delta <= 0 {
		return nil, invalidArgument("stock quantity must be positive")
	}
	product, err := s.Product(id)
	if err != nil {
		return nil, err
	}
	if delta > math.MaxInt-product.Quantity {
		return nil, invalidArgument("stock quantity for product %d would exceed %d", id, math.MaxInt)
	}
	product.Quantity += delta
	product.UpdatedAt = now
	return product, nil
}
