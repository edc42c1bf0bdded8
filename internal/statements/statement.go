package statements

import (
	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Kind identifies one of the three statements.
type Kind string

const (
	Income   Kind = "income"
	Balance  Kind = "balance"
	CashFlow Kind = "cash-flow"
)

// Line is a labeled total.
type Line struct {
	Label  string
	Amount decimal.Decimal
}

// Peso formats the line amount.
func (l Line) Peso() string {
	return core.FormatPeso(l.Amount)
}

// Statement is a fixed-shape view: a title and exactly three lines.
type Statement struct {
	Kind  Kind
	Title string
	Lines [3]Line
}

// Statements returns the income statement, balance sheet and cash flow
// statement, in that order.
func (s Summary) Statements() []Statement {
	return []Statement{
		{
			Kind:  Income,
			Title: "Income Statement",
			Lines: [3]Line{
				{Label: "Revenue", Amount: s.Revenue},
				{Label: "Expenses", Amount: s.Expense},
				{Label: "Net Income", Amount: s.NetIncome},
			},
		},
		{
			Kind:  Balance,
			Title: "Balance Sheet",
			Lines: [3]Line{
				{Label: "Assets", Amount: s.Assets},
				{Label: "Liabilities", Amount: s.Liabilities},
				{Label: "Equity", Amount: s.Equity},
			},
		},
		{
			Kind:  CashFlow,
			Title: "Cash Flow Statement",
			Lines: [3]Line{
				{Label: "Cash Inflows", Amount: s.CashInflow},
				{Label: "Cash Outflows", Amount: s.CashOutflow},
				{Label: "Net Cash Flow", Amount: s.NetCashFlow},
			},
		},
	}
}
