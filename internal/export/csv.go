// Package export renders a finished batch as CSV or XLSX for accounting use.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/AlellaGreenTech/Invoice-app/constants"
	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/entity"
)

// DefaultColumns is the column set exports use unless the caller overrides it.
var DefaultColumns = []string{
	"Invoice Number",
	"Vendor Name",
	"Invoice Date",
	"Amount",
	"Currency",
	"Category",
	"Confidence",
	"Filename",
	"Status",
}

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportCSV renders the invoice rows followed by a summary block. A nil
// columns slice selects DefaultColumns; unknown column names render empty.
func (s *Service) ExportCSV(batch *entity.Batch, invoices []*entity.Invoice, columns []string) ([]byte, error) {
	start := time.Now()
	if columns == nil {
		columns = DefaultColumns
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, common.WrapError(err, "write csv header")
	}
	for _, inv := range invoices {
		if err := w.Write(invoiceRow(inv, columns)); err != nil {
			return nil, common.WrapError(err, "write csv row")
		}
	}

	for _, row := range summaryRows(batch, len(invoices)) {
		if err := w.Write(row); err != nil {
			return nil, common.WrapError(err, "write csv summary")
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, common.WrapError(err, "flush csv")
	}

	s.logger.Info("export.csv.ok",
		"batch_id", batch.ID.String(),
		"rows", len(invoices),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func invoiceRow(inv *entity.Invoice, columns []string) []string {
	row := make([]string, 0, len(columns))
	for _, col := range columns {
		row = append(row, invoiceCell(inv, col))
	}
	return row
}

func invoiceCell(inv *entity.Invoice, column string) string {
	switch column {
	case "Invoice Number":
		return strOrEmpty(inv.InvoiceNumber)
	case "Vendor Name":
		return strOrEmpty(inv.VendorName)
	case "Invoice Date":
		if inv.InvoiceDate != nil {
			return inv.InvoiceDate.Format("2006-01-02")
		}
	case "Amount":
		if inv.TotalAmount != nil {
			return inv.TotalAmount.StringFixed(2)
		}
	case "Currency":
		return strOrEmpty(inv.Currency)
	case "Category":
		return strOrEmpty(inv.Category)
	case "Confidence":
		if inv.CategoryConfidence > 0 {
			return fmt.Sprintf("%.0f%%", math.Round(float64(inv.CategoryConfidence)*100))
		}
	case "Filename":
		return inv.Filename
	case "Status":
		return string(inv.Status)
	}
	return ""
}

func summaryRows(batch *entity.Batch, invoiceCount int) [][]string {
	curr := constants.USD
	if batch.Currency != nil {
		curr = *batch.Currency
	}

	rows := [][]string{
		{},
		{"Summary"},
		{"Total Invoices", fmt.Sprintf("%d", invoiceCount)},
		{"Processed", fmt.Sprintf("%d", batch.ProcessedInvoices)},
		{"Failed", fmt.Sprintf("%d", batch.FailedInvoices)},
		{"Total Amount", fmt.Sprintf("%s %s", curr, batch.TotalAmount.StringFixed(2))},
	}
	if batch.DateRangeStart != nil && batch.DateRangeEnd != nil {
		rows = append(rows, []string{"Date Range", fmt.Sprintf("%s to %s",
			batch.DateRangeStart.Format("2006-01-02"),
			batch.DateRangeEnd.Format("2006-01-02"))})
	}
	return rows
}

// GenerateFilename names a CSV download after its batch and the moment of
// export.
func GenerateFilename(batch *entity.Batch) string {
	return fmt.Sprintf("invoices_batch_%s_%s.csv",
		batch.ID.String(), time.Now().UTC().Format("20060102_150405"))
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
