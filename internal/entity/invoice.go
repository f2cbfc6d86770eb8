package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

// Invoice represents one processed invoice record for data transfer between layers.
// A FAILED invoice carries only filename, source id, and the error message.
type Invoice struct {
	ID                 uuid.UUID               `json:"id"`
	BatchID            uuid.UUID               `json:"batch_id"`
	SourceFileID       string                  `json:"source_file_id"`
	Filename           string                  `json:"filename"`
	VendorName         *string                 `json:"vendor_name,omitempty"`
	InvoiceNumber      *string                 `json:"invoice_number,omitempty"`
	InvoiceDate        *time.Time              `json:"invoice_date,omitempty"`
	TotalAmount        *decimal.Decimal        `json:"total_amount,omitempty"`
	Currency           *string                 `json:"currency,omitempty"`
	CurrencyConfidence float32                 `json:"currency_confidence"`
	ConvertedAmount    *decimal.Decimal        `json:"converted_amount,omitempty"`
	Category           *string                 `json:"category,omitempty"`
	CategoryConfidence float32                 `json:"category_confidence"`
	CategoryReasoning  *string                 `json:"category_reasoning,omitempty"`
	RawText            string                  `json:"raw_text,omitempty"`
	ExtractionMethod   *string                 `json:"extraction_method,omitempty"`
	Status             constants.InvoiceStatus `json:"status"`
	ManuallyReviewed   bool                    `json:"manually_reviewed"`
	ErrorMessage       *string                 `json:"error_message,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}
