// Package sheets builds the exported workbook from a ledger and defines the
// ports the export targets implement.
package sheets

import (
	"errors"

	"bilancio/internal/core"
	"bilancio/internal/statements"
)

// FileName is the name of every exported workbook.
const FileName = "Financial_Statements.xlsx"

// Sheet names, in workbook order.
const (
	TransactionsSheet = "Transactions"
	IncomeSheet       = "Income Statement"
	BalanceSheet      = "Balance Sheet"
	CashFlowSheet     = "Cash Flow Statement"
)

// AmountHeader labels every amount column.
const AmountHeader = "Amount (" + core.PesoSign + ")"

// ErrEmptyLedger rejects exporting a ledger without transactions.
var ErrEmptyLedger = errors.New("no transactions to export")

// Sheet is a named grid of cell values; the first row is the header.
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook is the complete export: four sheets in fixed order.
type Workbook struct {
	FileName string
	Sheets   []Sheet
}

// SheetNames lists the sheet names in order.
func (wb Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Build derives the workbook from txs. The statements are computed from the
// same slice, so the transaction sheet and the totals never disagree.
func Build(txs []core.Transaction) (Workbook, error) {
	if len(txs) == 0 {
		return Workbook{}, ErrEmptyLedger
	}

	trans := Sheet{
		Name: TransactionsSheet,
		Rows: [][]any{{"Date", "Description", "Category", AmountHeader}},
	}
	for _, t := range txs {
		trans.Rows = append(trans.Rows, []any{
			t.Date.String(),
			t.Description,
			t.Category.Label(),
			t.Amount.Float(),
		})
	}

	wb := Workbook{FileName: FileName, Sheets: []Sheet{trans}}
	for _, st := range statements.Compute(txs).Statements() {
		sh := Sheet{
			Name: st.Title,
			Rows: [][]any{{st.Title, AmountHeader}},
		}
		for _, l := range st.Lines {
			sh.Rows = append(sh.Rows, []any{l.Label, l.Peso()})
		}
		wb.Sheets = append(wb.Sheets, sh)
	}
	return wb, nil
}
