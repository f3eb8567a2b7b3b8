// Package hash provides the xxHash64 fingerprints used for cell
// deduplication and archive payload checksums.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Fingerprint folds a 256-bit cell hash into a 64-bit map key.
func Fingerprint(h [32]byte) uint64 {
	return xxhash.Sum64(h[:])
}
