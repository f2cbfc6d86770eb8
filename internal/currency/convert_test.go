package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/AlellaGreenTech/Invoice-app/constants"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestConvertSameCurrencyIsIdentity(t *testing.T) {
	a := dec("123.45")
	assert.True(t, Convert(a, constants.EUR, constants.EUR).Equal(a))
	assert.True(t, Convert(a, constants.USD, constants.USD).Equal(a))
}

func TestConvertDirectPairs(t *testing.T) {
	assert.Equal(t, "109.00", Convert(dec("100"), constants.EUR, constants.USD).StringFixed(2))
	assert.Equal(t, "92.00", Convert(dec("100"), constants.USD, constants.EUR).StringFixed(2))
	assert.Equal(t, "128.00", Convert(dec("100"), constants.GBP, constants.USD).StringFixed(2))
}

func TestConvertRoundsHalfUp(t *testing.T) {
	// 10.05 EUR -> USD: 10.05 * 1.09 = 10.9545 -> 10.95
	assert.Equal(t, "10.95", Convert(dec("10.05"), constants.EUR, constants.USD).StringFixed(2))
	// 12.35 USD -> EUR: 12.35 * 0.92 = 11.362 -> 11.36
	assert.Equal(t, "11.36", Convert(dec("12.35"), constants.USD, constants.EUR).StringFixed(2))
}

func TestConvertRoundTripWithinTolerance(t *testing.T) {
	tolerance := dec("0.01")
	for _, amount := range []string{"1", "99.99", "1234.56"} {
		a := dec(amount)
		for _, c := range []struct{ from, to string }{
			{constants.EUR, constants.USD},
			{constants.USD, constants.EUR},
			{constants.GBP, constants.EUR},
		} {
			back := Convert(Convert(a, c.from, c.to), c.to, c.from)
			diff := back.Sub(a).Abs()
			// Static cross rates are only approximately inverse, so the
			// round trip drifts by the rounding step plus rate skew.
			tol := tolerance.Add(a.Mul(dec("0.01")))
			assert.True(t, diff.LessThanOrEqual(tol),
				"%s %s->%s->%s drifted by %s", amount, c.from, c.to, c.from, diff)
		}
	}
}

func TestConvertUnknownCurrencyIsNoop(t *testing.T) {
	a := dec("55.55")
	assert.True(t, Convert(a, "JPY", constants.EUR).Equal(a))
	assert.True(t, Convert(a, constants.EUR, "CHF").Equal(a))
}

func TestGetRate(t *testing.T) {
	assert.Equal(t, "1.09", GetRate(constants.EUR, constants.USD).String())
	assert.Equal(t, "1", GetRate("JPY", constants.USD).String())
}

func TestSupportedCurrencies(t *testing.T) {
	assert.Equal(t, []string{constants.EUR, constants.USD, constants.GBP}, SupportedCurrencies())
}
