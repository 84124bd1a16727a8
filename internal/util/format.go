package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Shared currency/percent formatting used across the dashboard. All functions
// are pure: the same numeric input always yields the same string, rounding is
// half-up to two decimal places, and sign conventions are uniform.

// FormatCurrency renders a dollar amount, e.g. -1234.5 -> "-$1,234.50".
func FormatCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := groupThousands(d.Abs().StringFixed(2))
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// FormatSignedCurrency renders a dollar amount with an explicit sign on
// gains, e.g. 250 -> "+$250.00". Zero carries no sign.
func FormatSignedCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsPositive() {
		return "+" + FormatCurrency(amount)
	}
	return FormatCurrency(amount)
}

// FormatPercent renders a percentage already on the 0-100 scale,
// e.g. 62.347 -> "62.35%". The input is never re-scaled.
func FormatPercent(pct float64) string {
	return decimal.NewFromFloat(pct).Round(2).StringFixed(2) + "%"
}

// FormatSignedPercent renders a percentage with an explicit sign on gains.
func FormatSignedPercent(pct float64) string {
	d := decimal.NewFromFloat(pct).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// groupThousands inserts comma separators into the integer part of a
// non-negative fixed-point string like "1234567.89".
func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		if fracPart == "" {
			return intPart
		}
		return intPart + "." + fracPart
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
