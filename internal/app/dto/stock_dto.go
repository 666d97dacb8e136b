package dto

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mrops-br/cafe-inventory-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// AddStockRequest represents the body of POST /stock/add.
// Both fields accept numbers or numeric strings.
type AddStockRequest struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  json.RawMessage `json:"quantity"`
}

// StockReceipt is a parsed and validated stock addition
type StockReceipt struct {
	ProductID int64 `validate:"gt=0"`
	Quantity  int   `validate:"gt=0"`
}

// ToReceipt parses and validates the request
func (r *AddStockRequest) ToReceipt() (StockReceipt, error) {
	id, _ := looseInt(r.ProductID)
	qty, _ := looseInt(r.Quantity)

	receipt := StockReceipt{ProductID: id, Quantity: int(qty)}
	if err := validate.Struct(receipt); err != nil {
		return StockReceipt{}, fmt.Errorf("%w: valid productId and positive quantity required", domain.ErrInvalidArgument)
	}
	return receipt, nil
}

// AddStockResponse reports the quantity after a stock addition
type AddStockResponse struct {
	Message     string `json:"message"`
	NewQuantity int    `json:"newQuantity"`
}
