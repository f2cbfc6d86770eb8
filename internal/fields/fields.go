// Package fields derives structured invoice fields from raw extracted text.
// Extraction is deterministic: the same text always yields the same fields,
// and absent fields stay nil rather than erroring.
package fields

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceFields is the structured output of text parsing. Vendor, number,
// and date are present-or-absent; only the currency carries a confidence.
type InvoiceFields struct {
	VendorName         *string
	InvoiceNumber      *string
	InvoiceDate        *time.Time
	Amount             *decimal.Decimal
	Currency           *string
	CurrencyConfidence float32
}

const vendorScanLines = 10

var (
	vendorLabelRe = regexp.MustCompile(`(?i)(from|vendor|billed by|seller):\s*(.+)`)
	startsDigitRe = regexp.MustCompile(`^\d`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),     // MM/DD/YYYY or DD/MM/YYYY
		regexp.MustCompile(`\b(\d{4}[/-]\d{1,2}[/-]\d{1,2})\b`),       // YYYY-MM-DD
		regexp.MustCompile(`\b([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})\b`), // Month DD, YYYY
		regexp.MustCompile(`\b(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})\b`),   // DD Month YYYY
	}

	// US slash/dash first, then EU, ISO, long month names in both orders.
	dateLayouts = []string{
		"1/2/2006", "1-2-2006", "1/2/06", "1-2-06",
		"2/1/2006", "2-1-2006", "2/1/06", "2-1-06",
		"2006-1-2", "2006/1/2",
		"January 2, 2006", "Jan 2, 2006",
		"2 January 2006", "2 Jan 2006",
	}

	invoiceNumberPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Invoice\s+Number\s*:?\s*([A-Z0-9-]+)`),
		regexp.MustCompile(`(?i)Invoice\s*#?\s*:?\s*([A-Z0-9-]+)`),
		regexp.MustCompile(`(?i)INV\s*#?\s*:?\s*([A-Z0-9-]+)`),
		regexp.MustCompile(`(?i)Bill\s*#?\s*:?\s*([A-Z0-9-]+)`),
	}

	genericHeaders = map[string]struct{}{
		"invoice": {},
		"bill":    {},
		"receipt": {},
	}
)

// Extract parses all invoice fields out of text. Pure and idempotent.
func Extract(text string) InvoiceFields {
	f := InvoiceFields{
		VendorName:    extractVendor(text),
		InvoiceNumber: extractInvoiceNumber(text),
		InvoiceDate:   extractDate(text),
	}
	if m := ExtractAmount(text); m.Currency != "" {
		amt := m.Amount
		cur := m.Currency
		f.Amount = &amt
		f.Currency = &cur
		f.CurrencyConfidence = m.Confidence
	}
	return f
}

// extractVendor scans the first few non-empty lines: a labelled
// "From:/Vendor:" line wins, else the first substantial line that does not
// start with a digit.
func extractVendor(text string) *string {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		seen++
		if seen > vendorScanLines {
			break
		}
		if _, generic := genericHeaders[strings.ToLower(line)]; generic {
			continue
		}
		if m := vendorLabelRe.FindStringSubmatch(line); m != nil {
			v := Sanitize(strings.TrimSpace(m[2]))
			return &v
		}
		if len(line) > 3 && !startsDigitRe.MatchString(line) {
			v := Sanitize(line)
			return &v
		}
	}
	return nil
}

func extractDate(text string) *time.Time {
	for _, pattern := range datePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			if d, ok := parseDate(m[1]); ok {
				return &d
			}
		}
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func extractInvoiceNumber(text string) *string {
	for _, pattern := range invoiceNumberPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			n := Sanitize(strings.TrimSpace(m[1]))
			return &n
		}
	}
	return nil
}
