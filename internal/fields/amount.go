package fields

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

// AmountMatch is an extracted total with its detected currency and the
// confidence of that detection.
type AmountMatch struct {
	Amount     decimal.Decimal
	Currency   string
	Confidence float32
}

// numeral matches both EU (1.234,56) and US (1,234.56) grouped numbers. The
// grouped alternative requires at least one separator so that ungrouped
// numbers fall through to the plain alternative instead of matching a prefix.
const numeral = `(\d{1,3}(?:[.,]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)`

type weightedPattern struct {
	re         *regexp.Regexp
	currency   string
	confidence float32
}

// EUR patterns come first: the weighting encodes an EU-centric bias, and a
// bare $ is discounted because European invoices occasionally use it loosely.
var weightedPatterns = []weightedPattern{
	{regexp.MustCompile(`€\s*` + numeral), constants.EUR, 1.0},
	{regexp.MustCompile(numeral + `\s*€`), constants.EUR, 1.0},
	{regexp.MustCompile(`(?i)\bEUR\s*` + numeral), constants.EUR, 0.9},
	{regexp.MustCompile(`(?i)` + numeral + `\s*EUR\b`), constants.EUR, 0.9},
	{regexp.MustCompile(`£\s*` + numeral), constants.GBP, 1.0},
	{regexp.MustCompile(`(?i)\bGBP\s*` + numeral), constants.GBP, 0.9},
	{regexp.MustCompile(`(?i)` + numeral + `\s*GBP\b`), constants.GBP, 0.9},
	{regexp.MustCompile(`(?i)\bUSD\s*` + numeral), constants.USD, 0.9},
	{regexp.MustCompile(`(?i)` + numeral + `\s*USD\b`), constants.USD, 0.9},
	{regexp.MustCompile(`\$\s*` + numeral), constants.USD, 0.7},
}

// legacyPatterns is the original reduced set: US-grouped numbers only.
var legacyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)\s*USD`),
	regexp.MustCompile(`USD\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`€\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`£\s*(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)`),
}

// \btotal keeps "Subtotal" lines from qualifying as total lines while
// still matching "Grand total". "à payer" starts with a non-ASCII rune,
// which Go's ASCII \b would mishandle, so boundaries sit per alternative.
var totalKeywords = regexp.MustCompile(
	`(?i)(\btotal|amount due|balance due|\bgesamt|\bsumme|montant|\bimporte|\bimporto|te betalen|à payer)`)

// offTotalDiscount scales confidence for amounts not anchored to a "total"
// keyword line (tier 3).
const offTotalDiscount = 0.7

// ExtractAmount finds the invoice total, its currency, and a confidence.
// Four tiers, in order: weighted patterns on "total" lines; legacy patterns
// on "total" lines with currency inferred from the line; weighted patterns
// anywhere (largest amount, discounted); legacy patterns anywhere (largest,
// flat low confidence, EUR default). Returns the zero AmountMatch if nothing
// numeric is found.
func ExtractAmount(text string) AmountMatch {
	lines := strings.Split(text, "\n")

	// Tier 1: weighted patterns on total lines.
	for _, line := range lines {
		if !totalKeywords.MatchString(line) {
			continue
		}
		for _, wp := range weightedPatterns {
			if m := wp.re.FindStringSubmatch(line); m != nil {
				if amt, err := ParseNumeral(m[1]); err == nil {
					return AmountMatch{Amount: amt, Currency: wp.currency, Confidence: wp.confidence}
				}
			}
		}
	}

	// Tier 2: legacy patterns on total lines, currency from line context.
	for _, line := range lines {
		if !totalKeywords.MatchString(line) {
			continue
		}
		for _, re := range legacyPatterns {
			if m := re.FindStringSubmatch(line); m != nil {
				if amt, err := ParseNumeral(m[1]); err == nil {
					cur, conf := inferCurrency(line)
					return AmountMatch{Amount: amt, Currency: cur, Confidence: conf}
				}
			}
		}
	}

	// Tier 3: largest weighted match anywhere, discounted.
	var best AmountMatch
	found := false
	for _, wp := range weightedPatterns {
		for _, m := range wp.re.FindAllStringSubmatch(text, -1) {
			amt, err := ParseNumeral(m[1])
			if err != nil {
				continue
			}
			if !found || amt.GreaterThan(best.Amount) {
				best = AmountMatch{Amount: amt, Currency: wp.currency, Confidence: wp.confidence * offTotalDiscount}
				found = true
			}
		}
	}
	if found {
		return best
	}

	// Tier 4: largest legacy match anywhere, EUR at flat low confidence.
	for _, re := range legacyPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			amt, err := ParseNumeral(m[1])
			if err != nil {
				continue
			}
			if !found || amt.GreaterThan(best.Amount) {
				best = AmountMatch{Amount: amt, Currency: constants.EUR, Confidence: 0.3}
				found = true
			}
		}
	}
	if found {
		return best
	}
	return AmountMatch{}
}

// inferCurrency reads a currency hint off the whole line. A bare $ maps to
// EUR at low confidence; this mirrors the EU-centric user base and is kept
// as documented policy.
func inferCurrency(line string) (string, float32) {
	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(line, "€") || strings.Contains(upper, "EUR"):
		return constants.EUR, 0.6
	case strings.Contains(line, "£") || strings.Contains(upper, "GBP"):
		return constants.GBP, 0.6
	case strings.Contains(upper, "USD"):
		return constants.USD, 0.6
	}
	return constants.EUR, 0.4
}

// ParseNumeral converts a matched numeral to a decimal, resolving EU
// (1.234,56) versus US (1,234.56) separators by which one occurs last. A
// lone comma followed by exactly two digits is a decimal comma; otherwise it
// groups thousands.
func ParseNumeral(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// EU: dots group thousands, comma is the decimal mark.
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 == 2 && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			// Multiple dots can only be EU thousands grouping.
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeral %q: %w", s, err)
	}
	return d, nil
}
