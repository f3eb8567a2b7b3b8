// Package collision assigns dense indices to cells keyed by their
// representation hash.
//
// Lookups go through a 64-bit xxHash fingerprint of the hash; the full
// 256-bit hash is compared on every hit, so two different cells sharing a
// fingerprint still get distinct indices.
package collision

import (
	"github.com/arloliu/celldag/internal/hash"
)

type entry struct {
	hash  [32]byte
	index int
}

// Tracker maps cell hashes to the index of their first occurrence.
//
// Note: Tracker is NOT thread-safe.
type Tracker struct {
	entries      map[uint64][]entry // fingerprint → entries sharing it
	count        int                // next free index
	hasCollision bool               // two distinct hashes share a fingerprint
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return NewTrackerSize(0)
}

// NewTrackerSize creates an empty tracker sized for n distinct hashes.
func NewTrackerSize(n int) *Tracker {
	return &Tracker{entries: make(map[uint64][]entry, n)}
}

// Track returns the index assigned to h. A hash seen for the first time
// gets the next free index and existed is false.
func (t *Tracker) Track(h [32]byte) (index int, existed bool) {
	fp := hash.Fingerprint(h)

	bucket := t.entries[fp]
	for _, e := range bucket {
		if e.hash == h {
			return e.index, true
		}
	}
	if len(bucket) > 0 {
		t.hasCollision = true
	}

	index = t.count
	t.entries[fp] = append(bucket, entry{hash: h, index: index})
	t.count++

	return index, false
}

// Lookup returns the index of h if it was tracked.
func (t *Tracker) Lookup(h [32]byte) (int, bool) {
	for _, e := range t.entries[hash.Fingerprint(h)] {
		if e.hash == h {
			return e.index, true
		}
	}

	return -1, false
}

// HasCollision returns true if two distinct hashes shared a fingerprint.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct hashes tracked.
func (t *Tracker) Count() int {
	return t.count
}
