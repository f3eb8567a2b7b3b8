package cell

import (
	"fmt"
	"math/big"

	"github.com/arloliu/celldag/address"
	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
)

// Slice is a consuming read cursor over the bits and refs of a cell.
//
// Failed loads leave the cursor where it was.
//
// Note: Slice is NOT thread-safe. Independent slices over one cell are.
type Slice struct {
	bits   *bitstring.Slice
	refs   []*Cell
	refPos int
}

// RemainingBits returns the number of unread bits.
func (s *Slice) RemainingBits() uint {
	return s.bits.Remaining()
}

// RemainingRefs returns the number of unread refs.
func (s *Slice) RemainingRefs() int {
	return len(s.refs) - s.refPos
}

// Clone returns an independent cursor at the same position.
func (s *Slice) Clone() *Slice {
	return &Slice{bits: s.bits.Clone(), refs: s.refs, refPos: s.refPos}
}

func (s *Slice) checkRefs(n int) error {
	if n < 0 || n > len(s.refs)-s.refPos {
		return fmt.Errorf("%w: need %d refs, %d left", errs.ErrRefsUnderflow, n, len(s.refs)-s.refPos)
	}

	return nil
}

// LoadBit reads a single bit.
func (s *Slice) LoadBit() (bool, error) {
	return s.bits.LoadBit()
}

// LoadBits reads n bits.
func (s *Slice) LoadBits(n uint) (bitstring.Bits, error) {
	return s.bits.LoadBits(n)
}

// PeekBits returns the next n bits without consuming them.
func (s *Slice) PeekBits(n uint) (bitstring.Bits, error) {
	return s.bits.PeekBits(n)
}

// LoadUint reads a width-bit unsigned integer.
func (s *Slice) LoadUint(width uint) (uint64, error) {
	return s.bits.LoadUint(width)
}

// PeekUint returns the next width-bit unsigned integer without consuming it.
func (s *Slice) PeekUint(width uint) (uint64, error) {
	return s.bits.PeekUint(width)
}

// LoadInt reads a width-bit signed integer.
func (s *Slice) LoadInt(width uint) (int64, error) {
	return s.bits.LoadInt(width)
}

// LoadBigUint reads an unsigned integer of up to 256 bits.
func (s *Slice) LoadBigUint(width uint) (*big.Int, error) {
	return s.bits.LoadBigUint(width)
}

// LoadBigInt reads a signed integer of up to 257 bits.
func (s *Slice) LoadBigInt(width uint) (*big.Int, error) {
	return s.bits.LoadBigInt(width)
}

// LoadBytes reads n whole bytes.
func (s *Slice) LoadBytes(n uint) ([]byte, error) {
	return s.bits.LoadBytes(n)
}

// LoadVarUint reads a value with a lenBits-wide byte length prefix.
func (s *Slice) LoadVarUint(lenBits uint) (uint64, error) {
	return s.bits.LoadVarUint(lenBits)
}

// LoadString reads a uint8 length-prefixed string.
func (s *Slice) LoadString() (string, error) {
	return s.bits.LoadString()
}

// Skip advances past n bits.
func (s *Slice) Skip(n uint) error {
	return s.bits.Skip(n)
}

// LoadCoins reads a VarUInteger 16 amount.
func (s *Slice) LoadCoins() (*big.Int, error) {
	return s.bits.LoadBigVarUint(coinsLenBits)
}

// LoadRef reads the next ref.
func (s *Slice) LoadRef() (*Cell, error) {
	if err := s.checkRefs(1); err != nil {
		return nil, err
	}
	ref := s.refs[s.refPos]
	s.refPos++

	return ref, nil
}

// PeekRef returns the next ref without consuming it.
func (s *Slice) PeekRef() (*Cell, error) {
	if err := s.checkRefs(1); err != nil {
		return nil, err
	}

	return s.refs[s.refPos], nil
}

// LoadRefs reads the next n refs.
func (s *Slice) LoadRefs(n int) ([]*Cell, error) {
	if err := s.checkRefs(n); err != nil {
		return nil, err
	}
	out := make([]*Cell, n)
	copy(out, s.refs[s.refPos:])
	s.refPos += n

	return out, nil
}

// SkipRefs advances past n refs.
func (s *Slice) SkipRefs(n int) error {
	if err := s.checkRefs(n); err != nil {
		return err
	}
	s.refPos += n

	return nil
}

// LoadMaybeRef reads a presence bit and, when it is set, a ref. It returns
// nil for an absent ref.
func (s *Slice) LoadMaybeRef() (*Cell, error) {
	present, err := s.bits.Clone().LoadBit()
	if err != nil {
		return nil, err
	}
	if !present {
		_ = s.bits.Skip(1)
		return nil, nil
	}
	if err := s.checkRefs(1); err != nil {
		return nil, err
	}

	_ = s.bits.Skip(1)
	ref := s.refs[s.refPos]
	s.refPos++

	return ref, nil
}

// LoadDict reads a HashmapE with keyBits-wide keys.
func (s *Slice) LoadDict(keyBits uint) (*Dictionary, error) {
	root, err := s.LoadMaybeRef()
	if err != nil {
		return nil, err
	}

	return DictFromCell(root, keyBits)
}

// LoadAddress reads a MsgAddress. Anycast addresses are rejected.
func (s *Slice) LoadAddress() (*address.Address, error) {
	tmp := s.bits.Clone()
	addr, err := loadAddress(tmp)
	if err != nil {
		return nil, err
	}
	s.bits = tmp

	return addr, nil
}

func loadAddress(s *bitstring.Slice) (*address.Address, error) {
	kind, err := s.LoadUint(2)
	if err != nil {
		return nil, err
	}

	switch address.Kind(kind) {
	case address.None:
		return address.NewNone(), nil
	case address.Extern:
		n, err := s.LoadUint(9)
		if err != nil {
			return nil, err
		}
		data, err := s.LoadBits(uint(n))
		if err != nil {
			return nil, err
		}

		return address.NewExtern(data.Bytes(), data.Len())
	case address.Std:
		if err := noAnycast(s); err != nil {
			return nil, err
		}
		wc, err := s.LoadInt(8)
		if err != nil {
			return nil, err
		}
		data, err := s.LoadBytes(32)
		if err != nil {
			return nil, err
		}

		return address.NewStd(int8(wc), [32]byte(data)), nil
	default:
		if err := noAnycast(s); err != nil {
			return nil, err
		}
		n, err := s.LoadUint(9)
		if err != nil {
			return nil, err
		}
		wc, err := s.LoadInt(32)
		if err != nil {
			return nil, err
		}
		data, err := s.LoadBits(uint(n))
		if err != nil {
			return nil, err
		}

		return address.NewVar(int32(wc), data.Bytes(), data.Len())
	}
}

func noAnycast(s *bitstring.Slice) error {
	anycast, err := s.LoadBit()
	if err != nil {
		return err
	}
	if anycast {
		return fmt.Errorf("%w: anycast addresses are not supported", errs.ErrInvalidAddress)
	}

	return nil
}

// ToCell builds an ordinary cell from the unread bits and refs. The slice is
// not consumed.
func (s *Slice) ToCell() (*Cell, error) {
	refs := make([]*Cell, s.RemainingRefs())
	copy(refs, s.refs[s.refPos:])

	return newCell(s.bits.Rest(), refs, false)
}
