// Package core provides the shared vocabulary of the finance manager:
// categories, periods, money parsing and the error taxonomy.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PercentTolerance is how far a budget's category percentages may drift
// from 100 and still validate.
var PercentTolerance = decimal.RequireFromString("0.001")

// ParseAmount parses a positive monetary amount. It accepts both dot and
// comma decimal separators and a leading dollar sign.
//
// Examples:
//
//	ParseAmount("150.00") -> 150.00, nil
//	ParseAmount("$12,50") -> 12.50, nil
//	ParseAmount("-3")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseNonNegative parses an amount that may be zero, such as an initial
// asset value.
func ParseNonNegative(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() < 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatUSD renders an amount with a dollar sign and two decimal places.
func FormatUSD(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
