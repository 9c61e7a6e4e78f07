package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tripforge/marketplace-api/internal/domain"
	"github.com/tripforge/marketplace-api/internal/service"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		unitPrice string
		quantity  int
		expected  string
	}{
		{name: "simple multiplication", unitPrice: "150.00", quantity: 2, expected: "300.00"},
		{name: "quantity one", unitPrice: "99.99", quantity: 1, expected: "99.99"},
		{name: "fractional cents stay exact", unitPrice: "0.01", quantity: 3, expected: "0.03"},
		{name: "zero price", unitPrice: "0", quantity: 10, expected: "0"},
		{name: "large values", unitPrice: "12345.67", quantity: 100, expected: "1234567.00"},
		{name: "float-hostile value", unitPrice: "0.1", quantity: 3, expected: "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := decimal.RequireFromString(tt.unitPrice)
			expected := decimal.RequireFromString(tt.expected)

			got := service.LineTotal(unit, tt.quantity)
			assert.True(t, expected.Equal(got), "expected %s, got %s", expected, got)
		})
	}
}

func TestSumItemTotals(t *testing.T) {
	t.Run("empty set sums to zero", func(t *testing.T) {
		total := service.SumItemTotals(nil)
		assert.True(t, decimal.Zero.Equal(total))
	})

	t.Run("sums persisted totals", func(t *testing.T) {
		items := []domain.ItineraryItem{
			{TotalPrice: decimal.RequireFromString("300.00")},
			{TotalPrice: decimal.RequireFromString("149.50")},
			{TotalPrice: decimal.RequireFromString("0.50")},
		}

		total := service.SumItemTotals(items)
		assert.True(t, decimal.RequireFromString("450.00").Equal(total), "got %s", total)
	})

	t.Run("preserves exact decimal arithmetic", func(t *testing.T) {
		items := []domain.ItineraryItem{
			{TotalPrice: decimal.RequireFromString("0.1")},
			{TotalPrice: decimal.RequireFromString("0.2")},
		}

		total := service.SumItemTotals(items)
		assert.True(t, decimal.RequireFromString("0.3").Equal(total), "got %s", total)
	})
}
