package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
)

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time { return &t }

func testBatch() *entity.Batch {
	return &entity.Batch{
		ID:                uuid.New(),
		Status:            constants.BatchCompleted,
		TotalInvoices:     2,
		ProcessedInvoices: 1,
		FailedInvoices:    1,
		TotalAmount:       decimal.RequireFromString("199.99"),
		Currency:          strPtr(constants.EUR),
		DateRangeStart:    timePtr(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		DateRangeEnd:      timePtr(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
	}
}

func testInvoices() []*entity.Invoice {
	return []*entity.Invoice{
		{
			InvoiceNumber:      strPtr("INV-001"),
			VendorName:         strPtr("ACME GmbH"),
			InvoiceDate:        timePtr(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
			TotalAmount:        decPtr("199.99"),
			Currency:           strPtr(constants.EUR),
			Category:           strPtr(string(constants.Software)),
			CategoryConfidence: 0.85,
			Filename:           "acme.pdf",
			Status:             constants.InvoiceCategorized,
		},
		{
			Filename: "broken.pdf",
			Status:   constants.InvoiceFailed,
		},
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.ExportCSV(testBatch(), testInvoices(), nil)
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1 // summary rows are shorter than data rows
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, DefaultColumns, records[0])
	assert.Equal(t, []string{
		"INV-001", "ACME GmbH", "2024-01-05", "199.99", "EUR",
		"Software & Technology", "85%", "acme.pdf", "CATEGORIZED",
	}, records[1])
	assert.Equal(t, []string{
		"", "", "", "", "", "", "", "broken.pdf", "FAILED",
	}, records[2])

	// Summary block after a blank line.
	body := string(out)
	assert.Contains(t, body, "Summary")
	assert.Contains(t, body, "Total Invoices,2")
	assert.Contains(t, body, "Processed,1")
	assert.Contains(t, body, "Failed,1")
	assert.Contains(t, body, "Total Amount,EUR 199.99")
	assert.Contains(t, body, "Date Range,2024-01-05 to 2024-02-10")
}

func TestExportCSVCustomColumns(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.ExportCSV(testBatch(), testInvoices(), []string{"Vendor Name", "Amount", "Bogus"})
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Vendor Name", "Amount", "Bogus"}, records[0])
	assert.Equal(t, []string{"ACME GmbH", "199.99", ""}, records[1])
}

func TestExportCSVNoDateRange(t *testing.T) {
	b := testBatch()
	b.DateRangeStart = nil

	svc := NewService(nil)
	out, err := svc.ExportCSV(b, nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Date Range")
}

func TestGenerateFilename(t *testing.T) {
	b := testBatch()
	name := GenerateFilename(b)

	assert.True(t, strings.HasPrefix(name, "invoices_batch_"+b.ID.String()+"_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}

func TestExportXLSX(t *testing.T) {
	svc := NewService(nil)
	out, err := svc.ExportXLSX(testBatch(), testInvoices(), nil)
	require.NoError(t, err)
	// XLSX files are zip archives.
	require.Greater(t, len(out), 4)
	assert.Equal(t, []byte{'P', 'K'}, out[:2])
}
