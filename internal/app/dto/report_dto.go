package dto

import (
	"strconv"

	"github.com/mrops-br/cafe-inventory-api/internal/domain"
)

// ParseThreshold reads the low-stock threshold query value.
// Empty, unparseable and zero values fall back to the default.
func ParseThreshold(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil || n == 0 {
		return domain.DefaultLowStockThreshold
	}
	return n
}

// ProductTrendResponse is one row of the summary report
type ProductTrendResponse struct {
	ProductID int64        `json:"productId"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	Worth     domain.Money `json:"worth"`
	TotalSold int          `json:"totalSold"`
}

// SummaryResponse represents the aggregate report
type SummaryResponse struct {
	AvailableProducts int                    `json:"availableProducts"`
	TotalWorth        domain.Money           `json:"totalWorth"`
	TotalItemsSold    int                    `json:"totalItemsSold"`
	TotalRevenue      domain.Money           `json:"totalRevenue"`
	Products          []ProductTrendResponse `json:"products"`
}

// ToSummaryResponse converts a domain Summary to SummaryResponse
func ToSummaryResponse(s domain.Summary) *SummaryResponse {
	rows := make([]ProductTrendResponse, len(s.Products))
	for i, p := range s.Products {
		rows[i] = ProductTrendResponse(p)
	}
	return &SummaryResponse{
		AvailableProducts: s.AvailableProducts,
		TotalWorth:        s.TotalWorth,
		TotalItemsSold:    s.TotalItemsSold,
		TotalRevenue:      s.TotalRevenue,
		Products:          rows,
	}
}
