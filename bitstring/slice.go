package bitstring

import (
	"fmt"
	"math/big"

	"github.com/arloliu/celldag/errs"
)

// Slice is a consuming read cursor over Bits.
//
// Note: Slice is NOT thread-safe. Independent cursors over the same Bits are.
type Slice struct {
	data []byte
	n    uint
	pos  uint
}

// NewSlice creates a cursor over b.
func NewSlice(b Bits) *Slice {
	return b.Slice()
}

// Remaining returns the number of unread bits.
func (s *Slice) Remaining() uint {
	return s.n - s.pos
}

// Offset returns the number of bits already consumed.
func (s *Slice) Offset() uint {
	return s.pos
}

// Clone returns an independent cursor at the same position.
func (s *Slice) Clone() *Slice {
	c := *s
	return &c
}

// Rest returns the unread bits without consuming them.
func (s *Slice) Rest() Bits {
	c := *s
	return c.readBits(c.Remaining())
}

func (s *Slice) check(n uint) error {
	if n > s.n-s.pos {
		return fmt.Errorf("%w: need %d bits, %d left", errs.ErrBitsUnderflow, n, s.n-s.pos)
	}

	return nil
}

// Skip advances the cursor by n bits.
func (s *Slice) Skip(n uint) error {
	if err := s.check(n); err != nil {
		return err
	}
	s.pos += n

	return nil
}

// LoadBit reads one bit.
func (s *Slice) LoadBit() (bool, error) {
	if err := s.check(1); err != nil {
		return false, err
	}

	return s.readUint(1) == 1, nil
}

// LoadBits reads n bits.
func (s *Slice) LoadBits(n uint) (Bits, error) {
	if err := s.check(n); err != nil {
		return Bits{}, err
	}

	return s.readBits(n), nil
}

// PeekBits returns the next n bits without consuming them.
func (s *Slice) PeekBits(n uint) (Bits, error) {
	if err := s.check(n); err != nil {
		return Bits{}, err
	}
	c := *s

	return c.readBits(n), nil
}

// LoadUint reads an unsigned integer of width bits, width in [0, 64].
func (s *Slice) LoadUint(width uint) (uint64, error) {
	if width > 64 {
		return 0, fmt.Errorf("%w: uint width %d > 64", errs.ErrValueOutOfRange, width)
	}
	if err := s.check(width); err != nil {
		return 0, err
	}

	return s.readUint(width), nil
}

// PeekUint returns the next width bits as an unsigned integer without consuming them.
func (s *Slice) PeekUint(width uint) (uint64, error) {
	c := *s
	return c.LoadUint(width)
}

// LoadInt reads a two's complement integer of width bits, width in [0, 64].
func (s *Slice) LoadInt(width uint) (int64, error) {
	u, err := s.LoadUint(width)
	if err != nil {
		return 0, err
	}

	return signExtend(u, width), nil
}

func signExtend(u uint64, width uint) int64 {
	if width == 0 || width >= 64 {
		return int64(u) //nolint:gosec
	}
	if u>>(width-1)&1 == 1 {
		return int64(u) - int64(1)<<width //nolint:gosec
	}

	return int64(u) //nolint:gosec
}

// LoadBigUint reads an unsigned integer of width bits, width in [0, 256].
func (s *Slice) LoadBigUint(width uint) (*big.Int, error) {
	if width > 256 {
		return nil, fmt.Errorf("%w: big uint width %d > 256", errs.ErrValueOutOfRange, width)
	}
	if err := s.check(width); err != nil {
		return nil, err
	}

	return s.readBig(width), nil
}

// LoadBigInt reads a two's complement integer of width bits, width in [0, 257].
func (s *Slice) LoadBigInt(width uint) (*big.Int, error) {
	if width > 257 {
		return nil, fmt.Errorf("%w: big int width %d > 257", errs.ErrValueOutOfRange, width)
	}
	if err := s.check(width); err != nil {
		return nil, err
	}

	v := s.readBig(width)
	if width > 0 && v.Bit(int(width-1)) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), width))
	}

	return v, nil
}

// LoadBytes reads n whole bytes.
func (s *Slice) LoadBytes(n uint) ([]byte, error) {
	if n > s.Remaining()/8 {
		return nil, fmt.Errorf("%w: need %d bytes, %d bits left", errs.ErrBitsUnderflow, n, s.Remaining())
	}

	return s.readBits(n * 8).data, nil
}

// LoadVarUint reads a VarUInteger with a lenBits length prefix into a uint64.
// Values wider than 8 bytes return ErrValueOutOfRange without consuming.
func (s *Slice) LoadVarUint(lenBits uint) (uint64, error) {
	c := *s
	v, err := c.LoadBigVarUint(lenBits)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: var uint %s overflows uint64", errs.ErrValueOutOfRange, v)
	}
	*s = c

	return v.Uint64(), nil
}

// LoadBigVarUint reads a VarUInteger with a lenBits length prefix.
func (s *Slice) LoadBigVarUint(lenBits uint) (*big.Int, error) {
	if lenBits == 0 || lenBits > 16 {
		return nil, fmt.Errorf("%w: length prefix width %d", errs.ErrValueOutOfRange, lenBits)
	}
	if err := s.check(lenBits); err != nil {
		return nil, err
	}

	c := *s
	size := uint(c.readUint(lenBits))
	if err := c.check(size * 8); err != nil {
		return nil, err
	}
	v := c.readBig(size * 8)
	*s = c

	return v, nil
}

// LoadString reads a uint8 length-prefixed string.
func (s *Slice) LoadString() (string, error) {
	if err := s.check(8); err != nil {
		return "", err
	}

	c := *s
	size := uint(c.readUint(8))
	if err := c.check(size * 8); err != nil {
		return "", err
	}
	str := string(c.readBits(size * 8).data)
	*s = c

	return str, nil
}

// readUint reads w <= 64 bits; bounds must have been checked.
func (s *Slice) readUint(w uint) uint64 {
	var v uint64
	for w > 0 {
		off := s.pos % 8
		avail := 8 - off
		take := min(avail, w)
		cur := s.data[s.pos/8]
		chunk := (cur >> (avail - take)) & byte((uint(1)<<take)-1)
		v = v<<take | uint64(chunk)
		s.pos += take
		w -= take
	}

	return v
}

// readBits reads n bits into new Bits; bounds must have been checked.
func (s *Slice) readBits(n uint) Bits {
	out := make([]byte, (n+7)/8)
	if s.pos%8 == 0 {
		copy(out, s.data[s.pos/8:])
		if rem := n % 8; rem != 0 {
			out[len(out)-1] &= byte(0xFF << (8 - rem))
		}
		s.pos += n

		return Bits{data: out, n: n}
	}

	left := n
	for i := 0; left > 0; i++ {
		w := min(left, 8)
		out[i] = byte(s.readUint(w) << (8 - w))
		left -= w
	}

	return Bits{data: out, n: n}
}

func (s *Slice) readBig(width uint) *big.Int {
	if width == 0 {
		return new(big.Int)
	}
	b := s.readBits(width)
	v := new(big.Int).SetBytes(b.data)
	if pad := uint(len(b.data))*8 - width; pad > 0 {
		v.Rsh(v, pad)
	}

	return v
}
