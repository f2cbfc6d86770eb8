// Package currency converts invoice amounts between currencies using a
// static rate table. Rates are deliberately fixed (no live FX) so batch
// totals are reproducible across runs.
package currency

import (
	"github.com/shopspring/decimal"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

type pair struct {
	from, to string
}

// ratesToEUR expresses each supported currency in EUR, used to compose a
// rate when no direct pair is tabulated.
var ratesToEUR = map[string]decimal.Decimal{
	constants.EUR: decimal.RequireFromString("1.00"),
	constants.USD: decimal.RequireFromString("0.92"),
	constants.GBP: decimal.RequireFromString("1.17"),
}

// staticRates holds precomputed cross rates for the common pairs.
var staticRates = map[pair]decimal.Decimal{
	{constants.EUR, constants.EUR}: decimal.RequireFromString("1.00"),
	{constants.EUR, constants.USD}: decimal.RequireFromString("1.09"),
	{constants.EUR, constants.GBP}: decimal.RequireFromString("0.85"),
	{constants.USD, constants.EUR}: decimal.RequireFromString("0.92"),
	{constants.USD, constants.USD}: decimal.RequireFromString("1.00"),
	{constants.USD, constants.GBP}: decimal.RequireFromString("0.78"),
	{constants.GBP, constants.EUR}: decimal.RequireFromString("1.17"),
	{constants.GBP, constants.USD}: decimal.RequireFromString("1.28"),
	{constants.GBP, constants.GBP}: decimal.RequireFromString("1.00"),
}

// Convert maps amount from one currency to another, rounding half-up to two
// places. Same-currency conversions return the amount untouched, and a
// wholly unknown currency is a no-op rather than an error.
func Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}

	if rate, ok := staticRates[pair{from, to}]; ok {
		return amount.Mul(rate).Round(2)
	}

	// Compose through EUR when both legs are known.
	fromRate, okFrom := ratesToEUR[from]
	toRate, okTo := ratesToEUR[to]
	if okFrom && okTo {
		eur := amount.Mul(fromRate)
		return eur.Div(toRate).Round(2)
	}

	return amount
}

// GetRate reports the tabulated rate for a pair, 1.00 when unknown.
func GetRate(from, to string) decimal.Decimal {
	if rate, ok := staticRates[pair{from, to}]; ok {
		return rate
	}
	return decimal.RequireFromString("1.00")
}

// SupportedCurrencies lists the currencies with a tabulated EUR rate.
func SupportedCurrencies() []string {
	return []string{constants.EUR, constants.USD, constants.GBP}
}
