package bitstring

import (
	"fmt"
	"math/big"

	"github.com/arloliu/celldag/errs"
)

// MaxStringLength is the longest string StoreString accepts, bounded by its
// uint8 length prefix.
const MaxStringLength = 255

// Builder accumulates bits up to a fixed capacity.
//
// Note: Builder is NOT thread-safe.
type Builder struct {
	data     []byte
	n        uint
	capacity uint
}

// NewBuilder creates a builder with the cell capacity of MaxBits.
func NewBuilder() *Builder {
	return NewBuilderCap(MaxBits)
}

// NewBuilderCap creates a builder with a custom bit capacity.
func NewBuilderCap(capacity uint) *Builder {
	return &Builder{
		data:     make([]byte, 0, (min(capacity, MaxBits)+7)/8),
		capacity: capacity,
	}
}

// Len returns the number of bits written.
func (b *Builder) Len() uint {
	return b.n
}

// Cap returns the bit capacity.
func (b *Builder) Cap() uint {
	return b.capacity
}

// Free returns the number of bits that can still be written.
func (b *Builder) Free() uint {
	return b.capacity - b.n
}

// Reset empties the builder, keeping its capacity.
func (b *Builder) Reset() {
	b.data = b.data[:0]
	b.n = 0
}

// Build returns the written bits. The builder may keep being used.
func (b *Builder) Build() Bits {
	return Bits{data: clip(b.data, b.n), n: b.n}
}

func (b *Builder) ensure(n uint) error {
	if n > b.capacity-b.n {
		return fmt.Errorf("%w: need %d bits, %d free", errs.ErrBitsOverflow, n, b.capacity-b.n)
	}

	return nil
}

// StoreBit writes a single bit.
func (b *Builder) StoreBit(bit bool) error {
	if err := b.ensure(1); err != nil {
		return err
	}

	if bit {
		b.appendUint(1, 1)
	} else {
		b.appendUint(0, 1)
	}

	return nil
}

// StoreUint writes the low width bits of v, width in [0, 64].
func (b *Builder) StoreUint(v uint64, width uint) error {
	if width > 64 {
		return fmt.Errorf("%w: uint width %d > 64", errs.ErrValueOutOfRange, width)
	}
	if width < 64 && v>>width != 0 {
		return fmt.Errorf("%w: %d does not fit in %d bits", errs.ErrValueOutOfRange, v, width)
	}
	if err := b.ensure(width); err != nil {
		return err
	}

	b.appendUint(v, width)

	return nil
}

// StoreInt writes v in two's complement using width bits, width in [0, 64].
func (b *Builder) StoreInt(v int64, width uint) error {
	if width > 64 {
		return fmt.Errorf("%w: int width %d > 64", errs.ErrValueOutOfRange, width)
	}
	if !intFits(v, width) {
		return fmt.Errorf("%w: %d does not fit in %d signed bits", errs.ErrValueOutOfRange, v, width)
	}
	if err := b.ensure(width); err != nil {
		return err
	}

	b.appendUint(uint64(v), width) //nolint:gosec

	return nil
}

func intFits(v int64, width uint) bool {
	switch {
	case width == 0:
		return v == 0
	case width >= 64:
		return true
	default:
		limit := int64(1) << (width - 1)
		return v >= -limit && v < limit
	}
}

// StoreBigUint writes a non-negative big integer using width bits, width in [0, 256].
func (b *Builder) StoreBigUint(v *big.Int, width uint) error {
	if width > 256 {
		return fmt.Errorf("%w: big uint width %d > 256", errs.ErrValueOutOfRange, width)
	}
	if v.Sign() < 0 || uint(v.BitLen()) > width {
		return fmt.Errorf("%w: %s does not fit in %d bits", errs.ErrValueOutOfRange, v, width)
	}
	if err := b.ensure(width); err != nil {
		return err
	}

	b.appendBig(v, width)

	return nil
}

// StoreBigInt writes a big integer in two's complement using width bits,
// width in [0, 257].
func (b *Builder) StoreBigInt(v *big.Int, width uint) error {
	if width > 257 {
		return fmt.Errorf("%w: big int width %d > 257", errs.ErrValueOutOfRange, width)
	}
	if !bigIntFits(v, width) {
		return fmt.Errorf("%w: %s does not fit in %d signed bits", errs.ErrValueOutOfRange, v, width)
	}
	if err := b.ensure(width); err != nil {
		return err
	}

	u := v
	if v.Sign() < 0 {
		u = new(big.Int).Lsh(big.NewInt(1), width)
		u.Add(u, v)
	}
	b.appendBig(u, width)

	return nil
}

func bigIntFits(v *big.Int, width uint) bool {
	if width == 0 {
		return v.Sign() == 0
	}
	limit := new(big.Int).Lsh(big.NewInt(1), width-1)
	if v.Sign() >= 0 {
		return v.Cmp(limit) < 0
	}

	return new(big.Int).Neg(v).Cmp(limit) <= 0
}

// StoreBytes writes whole bytes.
func (b *Builder) StoreBytes(data []byte) error {
	if err := b.ensure(uint(len(data)) * 8); err != nil {
		return err
	}

	b.appendBits(data, 0, uint(len(data))*8)

	return nil
}

// StoreBits appends a bit string.
func (b *Builder) StoreBits(bits Bits) error {
	if err := b.ensure(bits.n); err != nil {
		return err
	}

	b.appendBits(bits.data, 0, bits.n)

	return nil
}

// StoreSlice appends the unread bits of s without consuming them.
func (b *Builder) StoreSlice(s *Slice) error {
	n := s.Remaining()
	if err := b.ensure(n); err != nil {
		return err
	}

	b.appendBits(s.data, s.pos, n)

	return nil
}

// StoreBuilder appends everything written to other.
func (b *Builder) StoreBuilder(other *Builder) error {
	if err := b.ensure(other.n); err != nil {
		return err
	}

	b.appendBits(other.data, 0, other.n)

	return nil
}

// StoreZeroes writes n zero bits.
func (b *Builder) StoreZeroes(n uint) error {
	if err := b.ensure(n); err != nil {
		return err
	}

	for n > 0 {
		w := min(n, 64)
		b.appendUint(0, w)
		n -= w
	}

	return nil
}

// StoreOnes writes n one bits.
func (b *Builder) StoreOnes(n uint) error {
	if err := b.ensure(n); err != nil {
		return err
	}

	for n > 0 {
		w := min(n, 64)
		b.appendUint(^uint64(0)>>(64-w), w)
		n -= w
	}

	return nil
}

// StoreVarUint writes v as a VarUInteger: the byte length of v in lenBits
// bits followed by the value bytes. Coin amounts use lenBits = 4.
func (b *Builder) StoreVarUint(v uint64, lenBits uint) error {
	return b.StoreBigVarUint(new(big.Int).SetUint64(v), lenBits)
}

// StoreBigVarUint is StoreVarUint for big integers.
func (b *Builder) StoreBigVarUint(v *big.Int, lenBits uint) error {
	if lenBits == 0 || lenBits > 16 {
		return fmt.Errorf("%w: length prefix width %d", errs.ErrValueOutOfRange, lenBits)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: negative var uint %s", errs.ErrValueOutOfRange, v)
	}

	size := uint(v.BitLen()+7) / 8
	if size >= 1<<lenBits {
		return fmt.Errorf("%w: %d bytes do not fit a %d bit length prefix", errs.ErrValueOutOfRange, size, lenBits)
	}
	if err := b.ensure(lenBits + size*8); err != nil {
		return err
	}

	b.appendUint(uint64(size), lenBits)
	if size > 0 {
		b.appendBig(v, size*8)
	}

	return nil
}

// StoreString writes s as a uint8 byte-length prefix followed by its bytes.
func (b *Builder) StoreString(s string) error {
	if len(s) > MaxStringLength {
		return fmt.Errorf("%w: string length %d exceeds maximum %d", errs.ErrValueOutOfRange, len(s), MaxStringLength)
	}
	if err := b.ensure(8 + uint(len(s))*8); err != nil {
		return err
	}

	b.appendUint(uint64(len(s)), 8)
	b.appendBits([]byte(s), 0, uint(len(s))*8)

	return nil
}

// appendUint writes the low w bits of v, most significant first. Capacity
// must have been checked by the caller.
func (b *Builder) appendUint(v uint64, w uint) {
	for w > 0 {
		used := b.n % 8
		if used == 0 {
			b.data = append(b.data, 0)
		}
		free := 8 - used
		take := min(free, w)
		chunk := byte(v>>(w-take)) & byte((uint(1)<<take)-1)
		b.data[len(b.data)-1] |= chunk << (free - take)
		b.n += take
		w -= take
	}
}

// appendBits copies n bits of src starting at bit offset off.
func (b *Builder) appendBits(src []byte, off, n uint) {
	if off%8 == 0 && b.n%8 == 0 {
		full := n / 8
		start := off / 8
		b.data = append(b.data, src[start:start+full]...)
		b.n += full * 8
		off += full * 8
		n -= full * 8
	}

	r := Slice{data: src, n: off + n, pos: off}
	for n > 0 {
		w := min(n, 64)
		b.appendUint(r.readUint(w), w)
		n -= w
	}
}

// appendBig writes the low width bits of a non-negative v.
func (b *Builder) appendBig(v *big.Int, width uint) {
	size := (width + 7) / 8
	if size == 0 {
		return
	}
	buf := v.FillBytes(make([]byte, size))
	b.appendBits(buf, size*8-width, width)
}
