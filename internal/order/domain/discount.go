package domain

import "github.com/shopspring/decimal"

const (
	// BulkThreshold is the cart size that earns the volume discount.
	BulkThreshold = 5
	// LoyalThreshold is the completed-order history that earns the
	// loyalty discount.
	LoyalThreshold = 10
)

var (
	bulkRate  = decimal.NewFromFloat(0.05)
	loyalRate = decimal.NewFromFloat(0.10)
)

// ComputeDiscountRate returns the additive discount rate for a checkout:
// 5% for five or more books, plus 10% for ten or more completed orders.
func ComputeDiscountRate(totalBookCount, completedOrderCount int) decimal.Decimal {
	rate := decimal.Zero
	if totalBookCount >= BulkThreshold {
		rate = rate.Add(bulkRate)
	}
	if completedOrderCount >= LoyalThreshold {
		rate = rate.Add(loyalRate)
	}
	return rate
}
