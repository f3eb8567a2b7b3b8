package bitstring

import (
	"bytes"
	"fmt"

	"github.com/arloliu/celldag/errs"
)

// Bits is an immutable bit string.
//
// The zero value is an empty bit string.
type Bits struct {
	data []byte
	n    uint
}

// New creates Bits holding the first n bits of data.
//
// data is copied. Returns ErrBitsUnderflow if data holds fewer than n bits.
func New(data []byte, n uint) (Bits, error) {
	if uint(len(data))*8 < n {
		return Bits{}, fmt.Errorf("%w: %d bits requested from %d bytes", errs.ErrBitsUnderflow, n, len(data))
	}

	return Bits{data: clip(data, n), n: n}, nil
}

// FromBytes creates byte-aligned Bits from data. data is copied.
func FromBytes(data []byte) Bits {
	return Bits{data: bytes.Clone(data), n: uint(len(data)) * 8}
}

// clip copies the bytes covering the first n bits of data and zeroes the tail.
func clip(data []byte, n uint) []byte {
	size := (n + 7) / 8
	out := make([]byte, size)
	copy(out, data[:size])
	if rem := n % 8; rem != 0 {
		out[size-1] &= byte(0xFF << (8 - rem))
	}

	return out
}

// Len returns the number of bits.
func (b Bits) Len() uint {
	return b.n
}

// IsEmpty reports whether b holds no bits.
func (b Bits) IsEmpty() bool {
	return b.n == 0
}

// Bytes returns a copy of the underlying bytes. The last byte is zero padded
// when Len is not a multiple of 8.
func (b Bits) Bytes() []byte {
	return bytes.Clone(b.data)
}

// ByteLen returns ceil(Len/8).
func (b Bits) ByteLen() int {
	return len(b.data)
}

// Bit returns the bit at position i. It panics if i >= Len.
func (b Bits) Bit(i uint) bool {
	if i >= b.n {
		panic(fmt.Sprintf("bitstring: bit index %d out of range [0, %d)", i, b.n))
	}

	return b.data[i/8]&(0x80>>(i%8)) != 0
}

// Equal reports whether a and b hold the same bits.
func (b Bits) Equal(other Bits) bool {
	return b.n == other.n && bytes.Equal(b.data, other.data)
}

// Sub returns a copy of n bits starting at offset.
func (b Bits) Sub(offset, n uint) (Bits, error) {
	if offset+n > b.n {
		return Bits{}, fmt.Errorf("%w: sub [%d, %d) of %d bits", errs.ErrBitsUnderflow, offset, offset+n, b.n)
	}
	s := Slice{data: b.data, n: b.n, pos: offset}

	return s.readBits(n), nil
}

// CommonPrefixLen returns the number of leading bits shared by b and other.
func (b Bits) CommonPrefixLen(other Bits) uint {
	limit := min(b.n, other.n)

	var i uint
	for i+8 <= limit && b.data[i/8] == other.data[i/8] {
		i += 8
	}
	for i < limit && b.Bit(i) == other.Bit(i) {
		i++
	}

	return i
}

// Tagged returns the augmented payload: ceil(Len/8) bytes where, if Len is
// not byte aligned, a completion 1 bit follows the last data bit and the rest
// of the byte is zero. Byte-aligned payloads get no tag. This is the form
// hashed into a cell and written to the bag-of-cells format.
func (b Bits) Tagged() []byte {
	out := bytes.Clone(b.data)
	if b.n%8 != 0 {
		out[b.n/8] |= 0x80 >> (b.n % 8)
	}

	return out
}

// FromTagged is the inverse of Tagged: it strips the completion tag of a
// byte slice whose last byte carries one.
func FromTagged(data []byte) (Bits, error) {
	if len(data) == 0 {
		return Bits{}, fmt.Errorf("%w: empty tagged payload", errs.ErrInvalidBitLiteral)
	}

	last := data[len(data)-1]
	if last == 0 {
		return Bits{}, fmt.Errorf("%w: missing completion tag", errs.ErrInvalidBitLiteral)
	}

	trailing := uint(0)
	for last&(1<<trailing) == 0 {
		trailing++
	}
	n := uint(len(data))*8 - trailing - 1

	return Bits{data: clip(data, n), n: n}, nil
}

// Slice returns a read cursor positioned at the first bit.
func (b Bits) Slice() *Slice {
	return &Slice{data: b.data, n: b.n}
}

// String returns the fift-hex form, e.g. x{B4_}.
func (b Bits) String() string {
	return b.fiftHex()
}
