/*
Package money holds the fixed-point decimal conventions of the payroll engine.

PURPOSE:
  All pay arithmetic runs on decimal.Decimal to avoid binary-float drift.
  This package owns the two conventions the rest of the engine relies on:

  1. Truncation: currency results are truncated (floored, never rounded) to
     2 decimals, with a tiny epsilon added first to absorb float noise that
     may have entered through parsed input.
  2. Text: input accepts both '.' and ',' as the decimal separator; output
     always uses ',' - 2 decimals for currency, and for hour totals an
     integral value renders without a decimal point while a fractional one
     renders with exactly one decimal digit.
*/
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// epsilon counters binary-float noise before flooring, so that a value like
// 461.5299999999 parsed from lossy input still truncates to 461.53 when it
// was meant to be exact.
var epsilon = decimal.New(1, -9)

// Parse reads a decimal amount accepting either ',' or '.' as separator.
func Parse(s string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a numeric amount: %q", s)
	}
	return d, nil
}

// Truncate2 floors the value to 2 decimals after adding the epsilon.
// This is the single truncation step used by every pay calculation.
func Truncate2(d decimal.Decimal) decimal.Decimal {
	return d.Add(epsilon).RoundFloor(2)
}

// FormatCurrency renders a currency amount with ',' and exactly 2 decimals.
func FormatCurrency(d decimal.Decimal) string {
	return strings.ReplaceAll(d.StringFixed(2), ".", ",")
}

// FormatHours renders an hour total: integral values without a decimal
// point, fractional values with exactly one decimal digit.
func FormatHours(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return strings.ReplaceAll(d.StringFixed(1), ".", ",")
}
