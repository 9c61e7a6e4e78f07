package service

import (
	"github.com/shopspring/decimal"
	"github.com/tripforge/marketplace-api/internal/domain"
)

// LineTotal computes unit price times quantity with exact decimal
// arithmetic. Money never passes through floats.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// SumItemTotals sums the persisted totals of a set of line items.
// Pure and deterministic; the stored itinerary total must always equal
// this sum over the itinerary's items.
func SumItemTotals(items []domain.ItineraryItem) decimal.Decimal {
	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].TotalPrice)
	}
	return total
}
