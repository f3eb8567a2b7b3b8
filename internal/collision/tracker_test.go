package collision

import (
	"crypto/sha256"
	"testing"

	"github.com/arloliu/celldag/internal/hash"
	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTrackerSize(4)
	a := sha256.Sum256([]byte("a"))
	b := sha256.Sum256([]byte("b"))

	idx, existed := tracker.Track(a)
	require.Equal(t, 0, idx)
	require.False(t, existed)

	idx, existed = tracker.Track(b)
	require.Equal(t, 1, idx)
	require.False(t, existed)

	idx, existed = tracker.Track(a)
	require.Equal(t, 0, idx)
	require.True(t, existed)

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
}

func TestTracker_Lookup(t *testing.T) {
	tracker := NewTracker()
	a := sha256.Sum256([]byte("a"))
	tracker.Track(a)

	idx, ok := tracker.Lookup(a)
	require.True(t, ok)
	require.Equal(t, 0, idx)

	_, ok = tracker.Lookup(sha256.Sum256([]byte("missing")))
	require.False(t, ok)
}

func TestTracker_FingerprintCollision(t *testing.T) {
	tracker := NewTracker()
	a := sha256.Sum256([]byte("a"))
	b := sha256.Sum256([]byte("b"))

	// force both hashes into one bucket
	fp := hash.Fingerprint(a)
	tracker.entries[fp] = []entry{{hash: b, index: 0}}
	tracker.count = 1

	idx, existed := tracker.Track(a)
	require.False(t, existed)
	require.Equal(t, 1, idx)
	require.True(t, tracker.HasCollision())
	require.Equal(t, 2, tracker.Count())

	idx, ok := tracker.Lookup(a)
	require.True(t, ok)
	require.Equal(t, 1, idx)
}
