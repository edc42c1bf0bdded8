// Package session maps browser sessions to their in-memory ledgers.
//
// A ledger lives exactly as long as its session: it is created by the first
// write without a valid cookie and dropped after the idle TTL or when the
// registry is full and the session is the least recently used one. Reads use
// Peek and never create sessions.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/cache"
	"bilancio/internal/ledger"
)

// CookieName carries the session ID.
const CookieName = "bilancio_session"

type Registry struct {
	ledgers *cache.LRUCache[*ledger.Store]
}

// NewRegistry keeps at most maxSessions ledgers, each expiring after ttl
// without requests.
func NewRegistry(maxSessions int, ttl time.Duration) *Registry {
	return &Registry{
		ledgers: cache.NewLRUCache[*ledger.Store](maxSessions, ttl),
	}
}

// Cache exposes the backing cache so it can be registered for cleanup.
func (r *Registry) Cache() cache.Cleaner {
	return r.ledgers
}

// Ledger returns the ledger of the caller's session, starting a new session
// (and setting its cookie) when the request has none or it has expired.
func (r *Registry) Ledger(w http.ResponseWriter, req *http.Request) (id string, store *ledger.Store) {
	if id, store, ok := r.Peek(req); ok {
		return id, store
	}

	id = uuid.NewString()
	store, _ = r.ledgers.GetOrCreate(id, ledger.New)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, store
}

// Peek returns the caller's session ID and ledger without creating one.
func (r *Registry) Peek(req *http.Request) (id string, store *ledger.Store, ok bool) {
	c, err := req.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", nil, false
	}
	store, ok = r.ledgers.Get(c.Value)
	if !ok {
		return "", nil, false
	}
	return c.Value, store, true
}

// Lookup returns an existing ledger without creating one.
func (r *Registry) Lookup(req *http.Request) (*ledger.Store, bool) {
	_, store, ok := r.Peek(req)
	return store, ok
}

// Count is the number of live sessions.
func (r *Registry) Count() int {
	return r.ledgers.Size()
}
