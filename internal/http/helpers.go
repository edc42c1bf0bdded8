package http

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"bilancio/internal/core"
	"bilancio/internal/statements"
)

// sanitizeInput removes control characters (except tab, newline and carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if (r < 32 && r != 9 && r != 10 && r != 13) || r == 127 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	return "req_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// clientIP returns the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type (
	// transactionRow is one rendered line of the transactions table.
	transactionRow struct {
		Index       int
		Number      int
		Date        string
		Description string
		Category    string
		Amount      string
	}

	// ledgerView is everything the ledger partial renders. Rows and
	// statements come from the same snapshot of the store.
	ledgerView struct {
		Rows       []transactionRow
		Statements []statements.Statement
		Empty      bool
		CanPublish bool
	}
)

func newLedgerView(txs []core.Transaction, canPublish bool) ledgerView {
	v := ledgerView{
		Rows:       make([]transactionRow, len(txs)),
		Statements: statements.Compute(txs).Statements(),
		Empty:      len(txs) == 0,
		CanPublish: canPublish,
	}
	for i, t := range txs {
		v.Rows[i] = transactionRow{
			Index:       i,
			Number:      i + 1,
			Date:        t.Date.String(),
			Description: t.Description,
			Category:    t.Category.Label(),
			Amount:      t.Amount.Peso(),
		}
	}
	return v
}

// categoryOption feeds the category select of the entry form.
type categoryOption struct {
	Value string
	Label string
}

func categoryOptions() []categoryOption {
	cats := core.Categories()
	opts := make([]categoryOption, len(cats))
	for i, c := range cats {
		opts[i] = categoryOption{Value: c.String(), Label: c.Label()}
	}
	return opts
}
