// Package ledger holds the append-only record of every coin movement.
// It is pure storage: entries are written by the marketplace engine and
// never mutated or removed afterwards.
package ledger

import (
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/coinboard/backend/internal/models"
)

type Ledger struct {
	mu      sync.RWMutex
	entries []models.LedgerEntry
}

func New() *Ledger {
	return &Ledger{}
}

// Append records an entry. O(1), never fails, never overwrites.
func (l *Ledger) Append(e models.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Len returns the number of entries recorded so far.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All returns a copy of every entry in insertion order.
func (l *Ledger) All() []models.LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesFor returns a lazy sequence of the given account's entries in
// insertion order. The sequence is restartable and iterates a snapshot taken
// at call time, so appends made while ranging are not observed.
func (l *Ledger) EntriesFor(accountRef uuid.UUID) iter.Seq[models.LedgerEntry] {
	snapshot := l.All()
	return func(yield func(models.LedgerEntry) bool) {
		for _, e := range snapshot {
			if e.AccountRef != accountRef {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
