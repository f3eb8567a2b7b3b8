// Package bitstring implements the bit-sequence primitive cells are made of.
//
// Three types cooperate:
//
//   - Bits is an immutable bit string with a known length.
//   - Builder is a capacity-checked accumulator producing Bits.
//   - Slice is a consuming read cursor over Bits.
//
// Bits are stored most-significant-bit first: bit 0 is the high bit of the
// first byte. Unused trailing bits of the last byte are always zero.
//
// Every Builder write and Slice read is checked before the receiver is
// touched. A write past capacity returns errs.ErrBitsOverflow, a read past
// the end returns errs.ErrBitsUnderflow, and in both cases the builder or
// slice is left exactly as it was.
//
// # Text literals
//
// Bits round-trip through four notations:
//
//	hex       b4_        "_" marks a completion tag in the last nibble
//	binary    10110
//	fift-hex  x{B4_}
//	fift-bin  b{10110}
//
// Builders and slices are not safe for concurrent use. Bits values are.
package bitstring

// MaxBits is the maximum number of payload bits a single cell can carry.
const MaxBits = 1023
