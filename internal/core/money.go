// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts stored as text and for
// rendering them as Brazilian Real currency strings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// ParseAmount converts a stored amount string to an exact decimal.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted. A
// leading minus sign yields ErrNegativeAmount; anything else that is not a
// plain decimal number yields ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// AmountOrZero parses the amount, treating malformed or negative text as zero.
func AmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatBRL renders d as "R$ 1.234,56", or "-R$ 1.234,56" when negative.
// Values are rounded half away from zero to two decimals.
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	out := currencySymbol + " " + groupThousands(intPart) + "," + frac
	if neg && out != currencySymbol+" 0,00" {
		return "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
