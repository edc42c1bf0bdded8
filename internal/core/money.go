// Package core provides the bookkeeping domain: transactions, categories and
// monetary amounts.
//
// This file contains parsing and formatting of peso amounts. Amounts keep
// full decimal precision; rounding to centavos happens only when formatting.
package core

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PesoSign prefixes every formatted amount.
const PesoSign = "₱"

// Amount is a decimal currency value.
type Amount struct {
	decimal.Decimal
}

// MustAmount parses s and panics on failure. Intended for tests and constants.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// amountPattern allows up to 15 integer digits. A dot separator may carry up
// to 10 fraction digits; a comma at most 2, so "1,234" is never read as 1.234.
var amountPattern = regexp.MustCompile(`^(\d{1,15})(?:\.(\d{1,10})|,(\d{1,2}))?$`)

// ParseAmount converts a user-entered decimal string to an Amount.
//
// It accepts a dot (12.345) or a comma (12,34) decimal separator and keeps
// every fractional digit. Signs, exponents, thousands separators, zero and
// anything that is not a plain decimal number are rejected with ErrInvalidAmount.
//
// Examples:
//   ParseAmount("12.345") -> 12.345
//   ParseAmount("12,34")  -> 12.34
//   ParseAmount("1,234")  -> ErrInvalidAmount
//   ParseAmount("1e3")    -> ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if !amountPattern.MatchString(s) {
		return Amount{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	a := Amount{Decimal: d}
	if err := a.Validate(); err != nil {
		return Amount{}, err
	}
	return a, nil
}

func (a Amount) Validate() error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Float returns the amount as a float64 for spreadsheet cells.
func (a Amount) Float() float64 {
	return a.InexactFloat64()
}

// FormatPeso renders d with the peso sign and exactly two fraction digits,
// e.g. 1234.5 -> "₱1234.50" and -200 -> "₱-200.00".
func FormatPeso(d decimal.Decimal) string {
	return PesoSign + d.StringFixed(2)
}

// Peso formats the amount with FormatPeso.
func (a Amount) Peso() string {
	return FormatPeso(a.Decimal)
}
