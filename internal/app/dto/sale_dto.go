package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
)

// SaleLineRequest is one line of POST /sales
type SaleLineRequest struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  json.RawMessage `json:"quantity"`
}

// ParseSaleRequest accepts either a single line object or an array of lines.
// A quantity that is missing, unparseable or not positive counts as 1.
func ParseSaleRequest(body []byte) ([]domain.LineRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: at least one sale item required", domain.ErrInvalidArgument)
	}

	var items []SaleLineRequest
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
	} else {
		var item SaleLineRequest
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		items = []SaleLineRequest{item}
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one sale item required", domain.ErrInvalidArgument)
	}

	lines := make([]domain.LineRequest, len(items))
	for i, item := range items {
		id, ok := looseInt(item.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: sale item %d has no valid productId", domain.ErrInvalidArgument, i)
		}
		qty, ok := looseInt(item.Quantity)
		if !ok || qty <= 0 {
			qty = 1
		}
		lines[i] = domain.LineRequest{ProductID: id, Quantity: int(qty)}
	}
	return lines, nil
}

// SaleLineResponse represents a committed sale line
type SaleLineResponse struct {
	ProductID int64        `json:"productId"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	Price     domain.Money `json:"price"`
	Total     domain.Money `json:"total"`
}

// SaleResponse represents the sale response
type SaleResponse struct {
	ID    string             `json:"id"`
	Items []SaleLineResponse `json:"items"`
	Total domain.Money       `json:"total"`
	Date  time.Time          `json:"date"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *domain.Sale) *SaleResponse {
	items := make([]SaleLineResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleLineResponse(item)
	}
	return &SaleResponse{
		ID:    s.ID,
		Items: items,
		Total: s.Total,
		Date:  s.Date,
	}
}

// ToSaleResponseList converts a list of domain Sales to SaleResponse list
func ToSaleResponseList(sales []domain.Sale) []*SaleResponse {
	responses := make([]*SaleResponse, len(sales))
	for i := range sales {
		responses[i] = ToSaleResponse(&sales[i])
	}
	return responses
}
