// Package history keeps the most recent conversions of each session.
package history

import (
	"sync"

	"github.com/amirasaad/fxconvert/pkg/domain"
)

// DefaultLimit is the number of conversions a session keeps.
const DefaultLimit = 5

// Log is an ordered, bounded list of conversions, newest first.
// Safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	limit   int
	entries []domain.ConversionRecord
}

// NewLog creates a log keeping at most limit entries.
func NewLog(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Record prepends entry and drops the oldest entries beyond the limit.
func (l *Log) Record(entry domain.ConversionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]domain.ConversionRecord, 0, min(len(l.entries)+1, l.limit))
	entries = append(entries, entry)
	for _, e := range l.entries {
		if len(entries) == l.limit {
			break
		}
		entries = append(entries, e)
	}
	l.entries = entries
}

// List returns a copy of the entries, newest first.
func (l *Log) List() []domain.ConversionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.ConversionRecord, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
