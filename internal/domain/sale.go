package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LineRequest is one requested (product, quantity) pair of a sale
type LineRequest struct {
	ProductID int64
	Quantity  int
}

// SaleLine is a committed line item, priced at the time of sale
type SaleLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     Money  `json:"price"`
	Total     Money  `json:"total"`
}

// Sale is an append-only record of a completed sale
type Sale struct {
	ID    string     `json:"id"`
	Items []SaleLine `json:"items"`
	Total Money      `json:"total"`
	Date  time.Time  `json:"date"`
}

// ItemCount sums the quantities of all lines.
func (s *Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// ApplySale validates every line against current stock and only then
// decrements stock and appends the sale. A failed validation leaves the
// snapshot untouched.
//
// Lines naming the same product are summed before the stock check.
func (s *Snapshot) ApplySale(lines []LineRequest, saleID string, now time.Time) (*Sale, error) {
	if len(lines) == 0 {
		return nil, invalidArgument("at least one sale item required")
	}

	// Validation pass
	requested := make(map[int64]int, len(lines))
	overflowed := make(map[int64]bool)
	order := make([]int64, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, invalidArgument("sale quantity for product %d must be positive", line.ProductID)
		}
		if s.productIndex(line.ProductID) < 0 {
			return nil, productNotFound(line.ProductID)
		}
		if _, seen := requested[line.ProductID]; !seen {
			order = append(order, line.ProductID)
		}
		// saturate instead of wrapping; no stock can cover a saturated request
		if requested[line.ProductID] > math.MaxInt-line.Quantity {
			requested[line.ProductID] = math.MaxInt
			overflowed[line.ProductID] = true
			continue
		}
		requested[line.ProductID] += line.Quantity
	}

	var shortfalls []Shortfall
	for _, id := range order {
		product := &s.Products[s.productIndex(id)]
		if overflowed[id] || product.Quantity < requested[id] {
			shortfalls = append(shortfalls, Shortfall{
				ProductID: id,
				Available: product.Quantity,
				Requested: requested[id],
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, &InsufficientStockError{Shortfalls: shortfalls}
	}

	// Commit pass
	sale := Sale{
		ID:    saleID,
		Items: make([]SaleLine, 0, len(lines)),
		Date:  now,
	}
	total := decimal.Zero
	for _, line := range lines {
		product := &s.Products[s.productIndex(line.ProductID)]
		product.Quantity -= line.Quantity
		product.UpdatedAt = now

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(lineTotal)
		sale.Items = append(sale.Items, SaleLine{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
			Total:     NewMoney(lineTotal),
		})
	}
	sale.Total = NewMoney(total)

	s.Sales = append(s.Sales, sale)
	return &sale, nil
}
