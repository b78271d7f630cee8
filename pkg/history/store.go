package history

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Store maps session IDs to their conversion logs. Sessions idle for longer
// than the expiration are dropped, and at most size sessions are tracked.
type Store struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Log]
	limit    int
	onChange func(n int)

	// reportMu orders observer calls so the last one carries the latest size
	reportMu sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSizeObserver registers fn to be called with the number of tracked
// sessions whenever a session is created or removed. fn must not call back
// into the store.
func WithSizeObserver(fn func(n int)) StoreOption {
	return func(s *Store) {
		s.onChange = fn
	}
}

// NewStore creates a store of at most size sessions, each keeping limit
// conversions and expiring after ttl without activity.
func NewStore(size, limit int, ttl time.Duration, opts ...StoreOption) *Store {
	s := &Store{limit: limit}
	for _, opt := range opts {
		opt(s)
	}
	// the eviction callback runs under the LRU lock, so the size is read
	// once that lock is released
	s.sessions = expirable.NewLRU[string, *Log](size, func(string, *Log) {
		if s.onChange != nil {
			go s.report()
		}
	}, ttl)
	return s
}

// Get returns the log for id, creating it on first use. Each call renews the
// session's expiration.
func (s *Store) Get(id string) *Log {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log, ok := s.sessions.Get(id); ok {
		// re-add to push the expiry forward
		s.sessions.Add(id, log)
		return log
	}
	// an expired entry may still be held until the purge runs; Add replaces it
	log := NewLog(s.limit)
	s.sessions.Add(id, log)
	s.report()
	return log
}

// Peek returns the log for id without creating or renewing it.
func (s *Store) Peek(id string) (*Log, bool) {
	return s.sessions.Peek(id)
}

// Delete ends the session id.
func (s *Store) Delete(id string) {
	s.sessions.Remove(id)
	s.report()
}

// Limit returns the number of conversions each session keeps.
func (s *Store) Limit() int {
	if s.limit <= 0 {
		return DefaultLimit
	}
	return s.limit
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	return s.sessions.Len()
}

func (s *Store) report() {
	if s.onChange == nil {
		return
	}
	s.reportMu.Lock()
	defer s.reportMu.Unlock()
	s.onChange(s.sessions.Len())
}
