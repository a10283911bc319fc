package viewer

import (
	"sync"

	"github.com/google/uuid"
)

type ledgerEntry struct {
	id      string
	label   string
	release func()
}

// ledger records everything a mount acquired so it can be given back in reverse order.
// Each entry is released at most once.
type ledger struct {
	mu      *sync.Mutex
	entries []ledgerEntry
}

func newLedger() *ledger {
	return &ledger{mu: &sync.Mutex{}}
}

// add records a release function and returns the entry id.
func (l *ledger) add(label string, release func()) string {
	id := uuid.NewString()
	l.mu.Lock()
	l.entries = append(l.entries, ledgerEntry{id: id, label: label, release: release})
	l.mu.Unlock()
	return id
}

// len returns the number of entries not yet released.
func (l *ledger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// releaseAll runs every release function, newest first, and empties the ledger.
// It returns the labels in the order they were released.
func (l *ledger) releaseAll() []string {
	l.mu.Lock()
	entries := l.entries
	l.entries = nil
	l.mu.Unlock()

	labels := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entries[i].release()
		labels = append(labels, entries[i].label)
	}
	return labels
}
