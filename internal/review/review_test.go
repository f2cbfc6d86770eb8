package review

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func healthyInvoice() *entity.Invoice {
	return &entity.Invoice{
		TotalAmount:        decPtr("120.50"),
		Currency:           strPtr(constants.EUR),
		CurrencyConfidence: 1.0,
		Category:           strPtr(string(constants.Software)),
		CategoryConfidence: 0.85,
		Status:             constants.InvoiceCategorized,
	}
}

func TestNeedsReview(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Invoice)
		want   bool
	}{
		{"healthy invoice passes", func(inv *entity.Invoice) {}, false},
		{"missing currency", func(inv *entity.Invoice) { inv.Currency = nil }, true},
		{"low currency confidence", func(inv *entity.Invoice) { inv.CurrencyConfidence = 0.4 }, true},
		{"currency confidence at floor passes", func(inv *entity.Invoice) { inv.CurrencyConfidence = 0.6 }, false},
		{"missing category", func(inv *entity.Invoice) { inv.Category = nil }, true},
		{"other category", func(inv *entity.Invoice) { inv.Category = strPtr(string(constants.Other)) }, true},
		{"low category confidence", func(inv *entity.Invoice) { inv.CategoryConfidence = 0.3 }, true},
		{"category confidence at floor passes", func(inv *entity.Invoice) { inv.CategoryConfidence = 0.5 }, false},
		{"missing amount", func(inv *entity.Invoice) { inv.TotalAmount = nil }, true},
		{"manual review clears all flags", func(inv *entity.Invoice) {
			inv.TotalAmount = nil
			inv.Currency = nil
			inv.ManuallyReviewed = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := healthyInvoice()
			tt.mutate(inv)
			assert.Equal(t, tt.want, NeedsReview(inv))
		})
	}
}

func TestNeedsFix(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.Invoice)
		want   bool
	}{
		{"healthy invoice passes", func(inv *entity.Invoice) {}, false},
		{"low confidence alone is not a fix", func(inv *entity.Invoice) {
			inv.CurrencyConfidence = 0.1
			inv.CategoryConfidence = 0.1
		}, false},
		{"missing amount", func(inv *entity.Invoice) { inv.TotalAmount = nil }, true},
		{"missing category", func(inv *entity.Invoice) { inv.Category = nil }, true},
		{"other category", func(inv *entity.Invoice) { inv.Category = strPtr(string(constants.Other)) }, true},
		{"manual review clears fix flag", func(inv *entity.Invoice) {
			inv.TotalAmount = nil
			inv.ManuallyReviewed = true
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := healthyInvoice()
			tt.mutate(inv)
			assert.Equal(t, tt.want, NeedsFix(inv))
		})
	}
}
