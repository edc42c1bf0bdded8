package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
)

// ErrEmptySnapshot is returned by Transactions when the request carries no rows.
var ErrEmptySnapshot = errors.New("export request has no transactions")

// TransactionPayload is the wire form of a ledger entry. Amounts travel as
// decimal strings so no precision is lost between publisher and worker.
type TransactionPayload struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

// ExportRequestMessage carries a snapshot of a session ledger to be exported
// by the worker. The snapshot is self-contained: the worker never reads the
// web process's memory.
type ExportRequestMessage struct {
	ID        string               `json:"id"`
	Entries   []TransactionPayload `json:"transactions"`
	Timestamp time.Time            `json:"timestamp"`
}

// NewExportRequestMessage snapshots txs into a new request with a fresh ID.
func NewExportRequestMessage(txs []core.Transaction) *ExportRequestMessage {
	entries := make([]TransactionPayload, len(txs))
	for i, t := range txs {
		entries[i] = TransactionPayload{
			Date:        t.Date.String(),
			Description: t.Description,
			Category:    t.Category.String(),
			Amount:      t.Amount.String(),
		}
	}
	return &ExportRequestMessage{
		ID:        uuid.NewString(),
		Entries:   entries,
		Timestamp: time.Now().UTC(),
	}
}

// Transactions rebuilds and validates the ledger snapshot. Errors identify
// the offending row and wrap the underlying *core.ValidationError.
func (m *ExportRequestMessage) Transactions() ([]core.Transaction, error) {
	if len(m.Entries) == 0 {
		return nil, ErrEmptySnapshot
	}
	txs := make([]core.Transaction, 0, len(m.Entries))
	for i, p := range m.Entries {
		t, err := core.NewTransaction(p.Date, p.Description, p.Category, p.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, t)
	}
	return txs, nil
}

// ToJSON converts the message to JSON bytes
func (m *ExportRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExportRequestMessageFromJSON creates a message from JSON bytes
func ExportRequestMessageFromJSON(data []byte) (*ExportRequestMessage, error) {
	var msg ExportRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, errors.New("export request without id")
	}
	return &msg, nil
}
