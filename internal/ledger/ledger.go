// Package ledger provides the ordered collection of entries belonging to one
// bill.
//
// A Ledger holds either items or fees, preserves insertion order for stable
// display, and supports replace and remove by entity id. It is not safe for
// concurrent use on its own; the bill engine serializes access under its
// state mutex so that a ledger change and the matching total change are one
// atomic step.
package ledger

import (
	"log/slog"

	"github.com/ncolosso/splitter/internal/money"
)

// Entry is the common shape of a bill entry: it has a server-assigned
// identity and a contribution to the bill total.
type Entry interface {
	EntityID() string
	Contribution() money.Money
}

// Ledger is the ordered set of entries of one kind on one bill.
// The zero value is an empty ledger ready to use.
type Ledger[T Entry] struct {
	entries []T
}

// Load replaces the full contents, used once on the initial fetch.
// Load has no total side effect; the caller re-sums from the loaded
// entries.
func (l *Ledger[T]) Load(entries []T) {
	l.entries = make([]T, len(entries))
	copy(l.entries, entries)
}

// Append adds an entry at the end, preserving display order.
func (l *Ledger[T]) Append(e T) {
	l.entries = append(l.entries, e)
}

// Replace swaps the entry with the matching id for e, keeping its position.
// An unknown id is a no-op: the local view has drifted from the remote one,
// which is worth a warning but must not fail the caller.
func (l *Ledger[T]) Replace(id string, e T) bool {
	for i := range l.entries {
		if l.entries[i].EntityID() == id {
			l.entries[i] = e
			return true
		}
	}
	slog.Warn("ledger: replace of unknown entry, local view has drifted", "entry_id", id)
	return false
}

// Remove deletes the entry with the matching id. Like Replace, an unknown
// id is a warned no-op.
func (l *Ledger[T]) Remove(id string) bool {
	for i := range l.entries {
		if l.entries[i].EntityID() == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	slog.Warn("ledger: remove of unknown entry, local view has drifted", "entry_id", id)
	return false
}

// Get returns the entry with the matching id, if present.
func (l *Ledger[T]) Get(id string) (T, bool) {
	for i := range l.entries {
		if l.entries[i].EntityID() == id {
			return l.entries[i], true
		}
	}
	var zero T
	return zero, false
}

// Len returns the number of entries.
func (l *Ledger[T]) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in insertion order.
func (l *Ledger[T]) Entries() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}

// Sum re-adds every contribution from scratch. The running total is
// maintained by deltas; Sum exists for the initial load and for
// reconciliation and invariant checks, not the mutation hot path.
func (l *Ledger[T]) Sum() money.Money {
	var total money.Money
	for i := range l.entries {
		total = total.Add(l.entries[i].Contribution())
	}
	return total
}
