package constants

// BatchStatus is the canonical status for rows in batches.
type BatchStatus string

// Stable values (store these exact strings in DB).
const (
	BatchPending    BatchStatus = "PENDING"
	BatchProcessing BatchStatus = "PROCESSING"
	BatchCompleted  BatchStatus = "COMPLETED" // terminal: all files attempted
	BatchFailed     BatchStatus = "FAILED"    // terminal: orchestration-level error
)

// InvoiceStatus is the canonical status for rows in invoices.
type InvoiceStatus string

const (
	InvoicePending     InvoiceStatus = "PENDING"
	InvoiceCategorized InvoiceStatus = "CATEGORIZED"
	InvoiceFailed      InvoiceStatus = "FAILED"
)
