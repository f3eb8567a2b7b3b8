package cell

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
)

// labelKind is the encoding of an edge label.
type labelKind uint8

const (
	labelShort labelKind = iota // hml_short$0 (unary length, then bits)
	labelLong                   // hml_long$10 (k-bit length, then bits)
	labelSame                   // hml_same$11 (bit, then k-bit run length)
)

// labelCost returns the cheapest label encoding for label within an edge of
// at most m bits, along with its size. Ties prefer short, then long.
func labelCost(label bitstring.Bits, m uint) (labelKind, uint) {
	n := label.Len()
	k := uint(bits.Len(m))

	kind, cost := labelShort, 2*n+2
	if c := 2 + k + n; c < cost {
		kind, cost = labelLong, c
	}
	if n > 0 && isSameBits(label) {
		if c := 3 + k; c < cost {
			kind, cost = labelSame, c
		}
	}

	return kind, cost
}

func isSameBits(label bitstring.Bits) bool {
	first := label.Bit(0)
	for i := uint(1); i < label.Len(); i++ {
		if label.Bit(i) != first {
			return false
		}
	}

	return true
}

// storeLabel writes label as a HmLabel with maximum length m.
func storeLabel(b *Builder, label bitstring.Bits, m uint) error {
	n := label.Len()
	if n > m {
		return fmt.Errorf("%w: label of %d bits exceeds %d", errs.ErrInvalidDict, n, m)
	}

	kind, cost := labelCost(label, m)
	if cost > b.BitsLeft() {
		return fmt.Errorf("%w: label needs %d bits, %d free", errs.ErrBitsOverflow, cost, b.BitsLeft())
	}
	k := uint(bits.Len(m))

	switch kind {
	case labelShort:
		_ = b.StoreBit(false)
		_ = b.StoreOnes(n)
		_ = b.StoreBit(false)
		_ = b.StoreBits(label)
	case labelLong:
		_ = b.StoreUint(0b10, 2)
		_ = b.StoreUint(uint64(n), k)
		_ = b.StoreBits(label)
	case labelSame:
		_ = b.StoreUint(0b11, 2)
		_ = b.StoreBit(label.Bit(0))
		_ = b.StoreUint(uint64(n), k)
	}

	return nil
}

// loadLabel reads a HmLabel with maximum length m.
func loadLabel(s *Slice, m uint) (bitstring.Bits, error) {
	k := uint(bits.Len(m))

	long, err := s.LoadBit()
	if err != nil {
		return bitstring.Bits{}, err
	}

	if !long {
		var n uint
		for {
			one, err := s.LoadBit()
			if err != nil {
				return bitstring.Bits{}, err
			}
			if !one {
				break
			}
			n++
			if n > m {
				return bitstring.Bits{}, fmt.Errorf("%w: short label longer than %d", errs.ErrInvalidDict, m)
			}
		}

		return s.LoadBits(n)
	}

	same, err := s.LoadBit()
	if err != nil {
		return bitstring.Bits{}, err
	}

	if !same {
		n, err := s.LoadUint(k)
		if err != nil {
			return bitstring.Bits{}, err
		}
		if uint(n) > m {
			return bitstring.Bits{}, fmt.Errorf("%w: long label of %d bits exceeds %d", errs.ErrInvalidDict, n, m)
		}

		return s.LoadBits(uint(n))
	}

	bit, err := s.LoadBit()
	if err != nil {
		return bitstring.Bits{}, err
	}
	n, err := s.LoadUint(k)
	if err != nil {
		return bitstring.Bits{}, err
	}
	if uint(n) > m {
		return bitstring.Bits{}, fmt.Errorf("%w: same label of %d bits exceeds %d", errs.ErrInvalidDict, n, m)
	}

	run := bitstring.NewBuilderCap(uint(n))
	if bit {
		_ = run.StoreOnes(uint(n))
	} else {
		_ = run.StoreZeroes(uint(n))
	}

	return run.Build(), nil
}
