package money

import "github.com/shopspring/decimal"

// Scale is the number of fractional digits kept for money and meter readings.
const Scale = 2

// HasValidScale reports whether d carries at most two fractional digits.
func HasValidScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale))
}

// limit is the first magnitude a DECIMAL(12,2) column cannot hold.
var limit = decimal.New(1, 12-Scale)

// Fits reports whether d can be stored in a DECIMAL(12,2) column: at most two
// fractional digits and ten integer digits.
func Fits(d decimal.Decimal) bool {
	return HasValidScale(d) && d.Abs().LessThan(limit)
}

// Round rounds half away from zero to two fractional digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Format renders d with exactly two fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
