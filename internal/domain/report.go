package domain

import "github.com/shopspring/decimal"

// DefaultLowStockThreshold applies when the caller gives no usable threshold.
const DefaultLowStockThreshold = 10

// LowStock returns the products whose quantity is below threshold, in snapshot order.
func (s *Snapshot) LowStock(threshold int) []Product {
	low := make([]Product, 0)
	for _, p := range s.Products {
		if p.Quantity < threshold {
			low = append(low, p)
		}
	}
	return low
}

// ProductTrend is the per-product row of the summary report
type ProductTrend struct {
	ProductID int64
	Name      string
	Quantity  int
	Worth     Money
	TotalSold int
}

// Summary aggregates stock and sales figures
type Summary struct {
	AvailableProducts int
	TotalWorth        Money
	TotalItemsSold    int
	TotalRevenue      Money
	Products          []ProductTrend
}

// Summarize derives the aggregate report from the snapshot.
// Revenue uses the line totals recorded at sale time.
func (s *Snapshot) Summarize() Summary {
	sold := make(map[int64]int)
	summary := Summary{Products: make([]ProductTrend, 0, len(s.Products))}
	totalWorth, totalRevenue := decimal.Zero, decimal.Zero

	for _, sale := range s.Sales {
		for _, item := range sale.Items {
			sold[item.ProductID] += item.Quantity
			summary.TotalItemsSold += item.Quantity
			totalRevenue = totalRevenue.Add(item.Total.Decimal)
		}
	}

	for _, p := range s.Products {
		if p.Quantity > 0 {
			summary.AvailableProducts++
		}
		worth := decimal.Zero
		if p.Price.IsPositive() {
			worth = p.Worth()
			totalWorth = totalWorth.Add(worth)
		}
		summary.Products = append(summary.Products, ProductTrend{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Worth:     NewMoney(worth),
			TotalSold: sold[p.ID],
		})
	}

	summary.TotalWorth = NewMoney(totalWorth)
	summary.TotalRevenue = NewMoney(totalRevenue)
	return summary
}
