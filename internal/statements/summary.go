// Package statements folds a ledger into the totals behind the income
// statement, balance sheet and cash flow statement.
package statements

import (
	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Summary holds the lifetime-to-date totals of a ledger. Values keep full
// precision; format them with core.FormatPeso.
type Summary struct {
	Revenue     decimal.Decimal
	Expense     decimal.Decimal
	NetIncome   decimal.Decimal
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	Equity      decimal.Decimal
	CashInflow  decimal.Decimal
	CashOutflow decimal.Decimal
	NetCashFlow decimal.Decimal
}

// Compute sums amounts by category in one pass. Transactions with a
// category outside the known set are skipped.
func Compute(txs []core.Transaction) Summary {
	var s Summary
	for _, t := range txs {
		amt := t.Amount.Decimal
		switch t.Category {
		case core.Revenue:
			s.Revenue = s.Revenue.Add(amt)
		case core.Expense:
			s.Expense = s.Expense.Add(amt)
		case core.Asset:
			s.Assets = s.Assets.Add(amt)
		case core.Liability:
			s.Liabilities = s.Liabilities.Add(amt)
		case core.Equity:
			s.Equity = s.Equity.Add(amt)
		case core.CashInflow:
			s.CashInflow = s.CashInflow.Add(amt)
		case core.CashOutflow:
			s.CashOutflow = s.CashOutflow.Add(amt)
		}
	}
	s.NetIncome = s.Revenue.Sub(s.Expense)
	s.NetCashFlow = s.CashInflow.Sub(s.CashOutflow)
	return s
}

// Equal reports whether every total matches numerically.
func (s Summary) Equal(o Summary) bool {
	return s.Revenue.Equal(o.Revenue) &&
		s.Expense.Equal(o.Expense) &&
		s.NetIncome.Equal(o.NetIncome) &&
		s.Assets.Equal(o.Assets) &&
		s.Liabilities.Equal(o.Liabilities) &&
		s.Equity.Equal(o.Equity) &&
		s.CashInflow.Equal(o.CashInflow) &&
		s.CashOutflow.Equal(o.CashOutflow) &&
		s.NetCashFlow.Equal(o.NetCashFlow)
}
