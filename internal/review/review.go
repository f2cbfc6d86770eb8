// Package review flags invoices whose extracted data is too weak to trust
// without a human looking at it.
package review

import (
	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
)

const (
	// minCurrencyConfidence is the floor below which a detected currency
	// is treated as a guess.
	minCurrencyConfidence float32 = 0.6
	// minCategoryConfidence is the floor below which a category
	// assignment should be double-checked.
	minCategoryConfidence float32 = 0.5
)

// NeedsReview reports whether an invoice should be surfaced for manual
// review. An invoice someone already reviewed never re-flags.
func NeedsReview(inv *entity.Invoice) bool {
	if inv.ManuallyReviewed {
		return false
	}
	if inv.Currency == nil || inv.CurrencyConfidence < minCurrencyConfidence {
		return true
	}
	if inv.Category == nil || *inv.Category == string(constants.Other) || inv.CategoryConfidence < minCategoryConfidence {
		return true
	}
	if inv.TotalAmount == nil {
		return true
	}
	return false
}

// NeedsFix reports whether an invoice is missing data that blocks
// accounting use entirely, as opposed to merely being low-confidence.
func NeedsFix(inv *entity.Invoice) bool {
	if inv.ManuallyReviewed {
		return false
	}
	if inv.TotalAmount == nil {
		return true
	}
	if inv.Category == nil || *inv.Category == string(constants.Other) {
		return true
	}
	return false
}
