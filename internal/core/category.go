package core

import (
	"fmt"
	"strings"
)

// Category is the fixed classification tag that decides which statement
// bucket a transaction contributes to. The zero value is not a category.
type Category uint8

const (
	Revenue Category = iota + 1
	Expense
	Asset
	Liability
	Equity
	CashInflow
	CashOutflow
)

var categoryKeys = [...]string{
	Revenue:     "revenue",
	Expense:     "expense",
	Asset:       "asset",
	Liability:   "liability",
	Equity:      "equity",
	CashInflow:  "cash-inflow",
	CashOutflow: "cash-outflow",
}

// Categories lists every category in form order.
func Categories() []Category {
	return []Category{Revenue, Expense, Asset, Liability, Equity, CashInflow, CashOutflow}
}

// ParseCategory maps a wire key such as "cash-inflow" to its Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if categoryKeys[c] == key {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, s)
}

func (c Category) Valid() bool {
	return c >= Revenue && c <= CashOutflow
}

// String returns the wire key.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryKeys[c]
}

// Label is the display form: the wire key with its first letter upper-cased
// ("cash-inflow" -> "Cash-inflow").
func (c Category) Label() string {
	return Capitalize(c.String())
}

// Capitalize upper-cases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
