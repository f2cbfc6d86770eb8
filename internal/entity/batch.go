package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

// Batch represents one invoice processing job for data transfer between layers.
type Batch struct {
	ID                uuid.UUID             `json:"id"`
	SourceLocator     string                `json:"source_locator"`
	Status            constants.BatchStatus `json:"status"`
	TotalInvoices     int                   `json:"total_invoices"`
	ProcessedInvoices int                   `json:"processed_invoices"`
	FailedInvoices    int                   `json:"failed_invoices"`
	TotalAmount       decimal.Decimal       `json:"total_amount"`
	Currency          *string               `json:"currency,omitempty"`
	DateRangeStart    *time.Time            `json:"date_range_start,omitempty"`
	DateRangeEnd      *time.Time            `json:"date_range_end,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	CompletedAt       *time.Time            `json:"completed_at,omitempty"`
	ErrorMessage      *string               `json:"error_message,omitempty"`
}

// ProgressPercentage reports processed files over total, 0 for an empty batch.
func (b *Batch) ProgressPercentage() int {
	if b.TotalInvoices == 0 {
		return 0
	}
	return int(float64(b.ProcessedInvoices) / float64(b.TotalInvoices) * 100)
}
