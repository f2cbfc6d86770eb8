package fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

const sampleInvoice = `ACME Tools GmbH
Invoice

Invoice Number: INV-2024-001
Date: 15/03/2024

Item          Qty   Price
Widget        2     €100,00
Gadget        1     €1.034,56

Total: €1.234,56
`

func TestExtractVendor(t *testing.T) {
	f := Extract(sampleInvoice)
	require.NotNil(t, f.VendorName)
	assert.Equal(t, "ACME Tools GmbH", *f.VendorName)
}

func TestExtractVendorLabelled(t *testing.T) {
	f := Extract("Invoice\nFrom: Beta Consulting Ltd\nTotal: $5.00\n")
	require.NotNil(t, f.VendorName)
	assert.Equal(t, "Beta Consulting Ltd", *f.VendorName)
}

func TestExtractVendorSkipsHeadersAndDigits(t *testing.T) {
	f := Extract("Invoice\n12 Baker Street\nGamma Works\n")
	require.NotNil(t, f.VendorName)
	assert.Equal(t, "Gamma Works", *f.VendorName)
}

func TestExtractVendorAbsent(t *testing.T) {
	f := Extract("\n\n\n")
	assert.Nil(t, f.VendorName)
}

func TestExtractInvoiceNumber(t *testing.T) {
	for _, tc := range []struct {
		text string
		want string
	}{
		{"Invoice Number: INV-2024-001", "INV-2024-001"},
		{"Invoice # A-17", "A-17"},
		{"INV #: 9004", "9004"},
		{"Bill #XYZ-1", "XYZ-1"},
	} {
		f := Extract(tc.text)
		require.NotNil(t, f.InvoiceNumber, tc.text)
		assert.Equal(t, tc.want, *f.InvoiceNumber, tc.text)
	}
}

func TestExtractDateFormats(t *testing.T) {
	for _, tc := range []struct {
		text string
		want time.Time
	}{
		{"Date: 03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Date: 15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Date: 2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Date: March 15, 2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Date: 15 March 2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	} {
		f := Extract(tc.text)
		require.NotNil(t, f.InvoiceDate, tc.text)
		assert.Equal(t, tc.want, *f.InvoiceDate, tc.text)
	}
}

func TestExtractDateAmbiguousPrefersUSOrder(t *testing.T) {
	f := Extract("Date: 03/04/2024")
	require.NotNil(t, f.InvoiceDate)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), *f.InvoiceDate)
}

func TestExtractIdempotent(t *testing.T) {
	a := Extract(sampleInvoice)
	b := Extract(sampleInvoice)
	assert.Equal(t, a, b)
}

func TestSanitizeStripsControlChars(t *testing.T) {
	assert.Equal(t, "ACME\tCorp\nLine", Sanitize("ACME\x00\tCorp\x07\nLine\x1b"))
}

func TestParseNumeral(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1234.56", "1234.56"},
		{"1.234.567,89", "1234567.89"},
		{"4,99", "4.99"},
		{"1,234", "1234"},
		{"1.234", "1.234"},
		{"42", "42"},
	} {
		got, err := ParseNumeral(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got.String(), tc.in)
	}
}

func TestExtractAmountEuroTotalLine(t *testing.T) {
	m := ExtractAmount("Subtotal: €1.000,00\nTotal: €1.234,56\n")
	assert.Equal(t, "1234.56", m.Amount.String())
	assert.Equal(t, constants.EUR, m.Currency)
	assert.InDelta(t, 1.0, float64(m.Confidence), 0.001)
}

func TestExtractAmountSkipsSubtotalLines(t *testing.T) {
	// The subtotal appears first and is larger; only the total line may
	// anchor the full-confidence match.
	m := ExtractAmount("Subtotal: €2.000,00\nVAT: €234,56\nTotal: €1.234,56\n")
	assert.Equal(t, "1234.56", m.Amount.String())
	assert.Equal(t, constants.EUR, m.Currency)
	assert.InDelta(t, 1.0, float64(m.Confidence), 0.001)

	// With no total line at all, a subtotal amount is only reachable
	// through the discounted anywhere-scan.
	m = ExtractAmount("Subtotal: €2.000,00\n")
	assert.Equal(t, "2000", m.Amount.String())
	assert.InDelta(t, 0.7, float64(m.Confidence), 0.001)
}

func TestExtractAmountDollarDiscounted(t *testing.T) {
	m := ExtractAmount("Total: $1,234.56\n")
	assert.Equal(t, "1234.56", m.Amount.String())
	assert.Equal(t, constants.USD, m.Currency)
	assert.InDelta(t, 0.7, float64(m.Confidence), 0.001)
}

func TestExtractAmountCodeSuffix(t *testing.T) {
	m := ExtractAmount("Amount Due: 250.00 GBP\n")
	assert.Equal(t, "250", m.Amount.String())
	assert.Equal(t, constants.GBP, m.Currency)
	assert.InDelta(t, 0.9, float64(m.Confidence), 0.001)
}

func TestExtractAmountOffTotalTakesLargest(t *testing.T) {
	m := ExtractAmount("Line item €10,00\nAnother €999,99\nSmall €5,00\n")
	assert.Equal(t, "999.99", m.Amount.String())
	assert.Equal(t, constants.EUR, m.Currency)
	assert.InDelta(t, 0.7, float64(m.Confidence), 0.001)
}

func TestExtractAmountNothing(t *testing.T) {
	m := ExtractAmount("no numbers here")
	assert.Equal(t, "", m.Currency)
	assert.Equal(t, float32(0), m.Confidence)
	assert.True(t, m.Amount.IsZero())
}

func TestExtractAmountMultilingualTotal(t *testing.T) {
	m := ExtractAmount("Gesamtbetrag: 88,50 EUR\n")
	assert.Equal(t, "88.5", m.Amount.String())
	assert.Equal(t, constants.EUR, m.Currency)
	assert.InDelta(t, 0.9, float64(m.Confidence), 0.001)
}
