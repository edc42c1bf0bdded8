// Package ledger holds the ordered, in-memory list of transactions for one
// session. It is the single source of truth that statements and exports are
// derived from.
package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"bilancio/internal/core"
)

// ErrIndexOutOfRange is matched by every *IndexError.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexError reports a removal outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("remove transaction %d: ledger has %d entries", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Store is an append-only list with positional removal.
type Store struct {
	mu    sync.RWMutex
	items []core.Transaction
}

func New() *Store {
	return &Store{}
}

// Append validates t and inserts it at the end. A rejected transaction
// leaves the store unchanged.
func (s *Store) Append(t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, t)
	return nil
}

// RemoveAt deletes the entry at index, keeping the relative order of the rest.
func (s *Store) RemoveAt(index int) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return core.Transaction{}, &IndexError{Index: index, Len: len(s.items)}
	}
	removed := s.items[index]
	s.items = slices.Delete(s.items, index, index+1)
	return removed, nil
}

// All returns a copy of the transactions in insertion order.
func (s *Store) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
