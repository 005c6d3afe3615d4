// Package core provides money parsing and handling utilities.
//
// This file contains the strict parser used for user-submitted amounts and
// the conversions between decimals and integer cents used by storage.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-submitted decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Unlike
// NormalizeAmount it rejects anything that is not a plain decimal number, so
// form input errors reach the user instead of silently becoming zero.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, p := range parts {
		for _, r := range p {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	if len(parts) == 2 && parts[1] == "" {
		parts = parts[:1]
	}
	d, err := decimal.NewFromString(strings.Join(parts, "."))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// MaxAmount is the largest amount a record may carry. Its cent value fits
// an int64 column and a float64 JSON number without loss.
var MaxAmount = decimal.New(1, 12)

// ToCents converts an amount to integer cents. Amounts with fractions of a
// cent or beyond MaxAmount are rejected rather than rounded.
func ToCents(d decimal.Decimal) (int64, error) {
	if err := checkAmountRange(d); err != nil {
		return 0, err
	}
	return d.Shift(2).IntPart(), nil
}

func checkAmountRange(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(2)) {
		return ErrAmountPrecision
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
