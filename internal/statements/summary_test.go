package statements

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

func tx(cat core.Category, amount string) core.Transaction {
	return core.Transaction{
		Date:        core.NewDate(2025, 2, 1),
		Description: "t",
		Category:    cat,
		Amount:      core.MustAmount(amount),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeEmpty(t *testing.T) {
	for _, in := range [][]core.Transaction{nil, {}} {
		s := Compute(in)
		if !s.Equal(Summary{}) {
			t.Fatalf("expected all zero totals, got %+v", s)
		}
		for _, st := range s.Statements() {
			for _, l := range st.Lines {
				if l.Peso() != "₱0.00" {
					t.Fatalf("%s/%s = %s, want ₱0.00", st.Title, l.Label, l.Peso())
				}
			}
		}
	}
}

func TestComputeNetIncome(t *testing.T) {
	s := Compute([]core.Transaction{
		tx(core.Revenue, "700"),
		tx(core.Expense, "150"),
		tx(core.Revenue, "300"),
		tx(core.Expense, "250"),
	})
	if !s.Revenue.Equal(dec("1000")) || !s.Expense.Equal(dec("400")) {
		t.Fatalf("revenue=%s expense=%s", s.Revenue, s.Expense)
	}
	if !s.NetIncome.Equal(dec("600")) {
		t.Fatalf("net income = %s, want 600", s.NetIncome)
	}
}

func TestComputeAllBuckets(t *testing.T) {
	s := Compute([]core.Transaction{
		tx(core.Revenue, "100"),
		tx(core.Expense, "30.50"),
		tx(core.Asset, "5000"),
		tx(core.Liability, "1200"),
		tx(core.Equity, "3800"),
		tx(core.CashInflow, "250"),
		tx(core.CashOutflow, "400.25"),
	})
	want := Summary{
		Revenue:     dec("100"),
		Expense:     dec("30.50"),
		NetIncome:   dec("69.50"),
		Assets:      dec("5000"),
		Liabilities: dec("1200"),
		Equity:      dec("3800"),
		CashInflow:  dec("250"),
		CashOutflow: dec("400.25"),
		NetCashFlow: dec("-150.25"),
	}
	if !s.Equal(want) {
		t.Fatalf("got %+v\nwant %+v", s, want)
	}
}

func TestComputeIgnoresUnknownCategory(t *testing.T) {
	stray := tx(core.Revenue, "99")
	stray.Category = core.Category(0)
	s := Compute([]core.Transaction{tx(core.Revenue, "1"), stray})
	if !s.Revenue.Equal(dec("1")) {
		t.Fatalf("unknown category leaked into totals: %+v", s)
	}
}

func TestComputeKeepsFullPrecision(t *testing.T) {
	var txs []core.Transaction
	for i := 0; i < 3; i++ {
		txs = append(txs, tx(core.Expense, "0.005"))
	}
	s := Compute(txs)
	if !s.Expense.Equal(dec("0.015")) {
		t.Fatalf("expense = %s, want 0.015", s.Expense)
	}
	// Rounding happens once, at presentation.
	if got := core.FormatPeso(s.Expense); got != "₱0.02" {
		t.Fatalf("formatted = %s, want ₱0.02", got)
	}
}

func TestComputeOrderIndependent(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Revenue, "10.10"),
		tx(core.Expense, "3.33"),
		tx(core.CashInflow, "7"),
		tx(core.Revenue, "0.01"),
		tx(core.Liability, "42"),
		tx(core.CashOutflow, "1.99"),
	}
	base := Compute(txs)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.Transaction(nil), txs...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if !Compute(shuffled).Equal(base) {
			t.Fatalf("permutation %d changed totals", i)
		}
	}

	changed := append([]core.Transaction(nil), txs...)
	changed[0] = tx(core.Revenue, "10.11")
	if Compute(changed).Equal(base) {
		t.Fatal("totals insensitive to amount change")
	}
}

func TestStatementsShape(t *testing.T) {
	s := Compute([]core.Transaction{tx(core.Revenue, "1000"), tx(core.Expense, "400")})
	sts := s.Statements()
	wantTitles := []string{"Income Statement", "Balance Sheet", "Cash Flow Statement"}
	wantLabels := [][3]string{
		{"Revenue", "Expenses", "Net Income"},
		{"Assets", "Liabilities", "Equity"},
		{"Cash Inflows", "Cash Outflows", "Net Cash Flow"},
	}
	if len(sts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(sts))
	}
	for i, st := range sts {
		if st.Title != wantTitles[i] {
			t.Errorf("statement %d title = %q, want %q", i, st.Title, wantTitles[i])
		}
		for j, l := range st.Lines {
			if l.Label != wantLabels[i][j] {
				t.Errorf("statement %d line %d label = %q, want %q", i, j, l.Label, wantLabels[i][j])
			}
		}
	}
	if got := sts[0].Lines[2].Peso(); got != "₱600.00" {
		t.Fatalf("net income line = %s, want ₱600.00", got)
	}
}
