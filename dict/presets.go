package dict

import (
	"fmt"
	"math/big"

	"github.com/arloliu/celldag/address"
	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/errs"
)

// AddressKeyBits is the width of an addr_std key: tag, anycast bit,
// workchain and account hash.
const AddressKeyBits = 2 + 1 + 8 + address.StdBits

// KeyCodec maps keys of type K to fixed-width bit strings.
type KeyCodec[K comparable] struct {
	Bits   uint
	Encode func(K) (bitstring.Bits, error)
	Decode func(bitstring.Bits) (K, error)
}

// ValueCodec maps values of type V to cells.
type ValueCodec[V any] struct {
	Encode func(V) (*cell.Cell, error)
	Decode func(*cell.Cell) (V, error)
}

// Combine builds a Config from a key codec and a value codec.
func Combine[K comparable, V any](k KeyCodec[K], v ValueCodec[V]) Config[K, V] {
	return Config[K, V]{
		KeyBits:     k.Bits,
		EncodeKey:   k.Encode,
		DecodeKey:   k.Decode,
		EncodeValue: v.Encode,
		DecodeValue: v.Decode,
	}
}

// UintKeys encodes unsigned integers as n-bit big-endian keys.
func UintKeys(n uint) KeyCodec[uint64] {
	return KeyCodec[uint64]{
		Bits: n,
		Encode: func(k uint64) (bitstring.Bits, error) {
			return cell.UintKey(k, n)
		},
		Decode: func(b bitstring.Bits) (uint64, error) {
			if n > 64 {
				v, err := b.Slice().LoadBigUint(n)
				if err != nil {
					return 0, err
				}
				if !v.IsUint64() {
					return 0, fmt.Errorf("%w: key %s exceeds uint64", errs.ErrValueOutOfRange, v)
				}

				return v.Uint64(), nil
			}

			return b.Slice().LoadUint(n)
		},
	}
}

// IntKeys encodes signed integers as n-bit two's complement keys.
func IntKeys(n uint) KeyCodec[int64] {
	return KeyCodec[int64]{
		Bits: n,
		Encode: func(k int64) (bitstring.Bits, error) {
			return cell.IntKey(k, n)
		},
		Decode: func(b bitstring.Bits) (int64, error) {
			if n > 64 {
				v, err := b.Slice().LoadBigInt(n)
				if err != nil {
					return 0, err
				}
				if !v.IsInt64() {
					return 0, fmt.Errorf("%w: key %s exceeds int64", errs.ErrValueOutOfRange, v)
				}

				return v.Int64(), nil
			}

			return b.Slice().LoadInt(n)
		},
	}
}

// HashKeys uses 256-bit account hashes as keys.
func HashKeys() KeyCodec[[32]byte] {
	return KeyCodec[[32]byte]{
		Bits: address.StdBits,
		Encode: func(k [32]byte) (bitstring.Bits, error) {
			return bitstring.FromBytes(k[:]), nil
		},
		Decode: func(b bitstring.Bits) ([32]byte, error) {
			return [32]byte(b.Bytes()), nil
		},
	}
}

// AddressKeys uses addr_std addresses, given in raw "workchain:hex" form,
// as 267-bit keys.
func AddressKeys() KeyCodec[string] {
	return KeyCodec[string]{
		Bits: AddressKeyBits,
		Encode: func(k string) (bitstring.Bits, error) {
			addr, err := address.ParseRaw(k)
			if err != nil {
				return bitstring.Bits{}, err
			}
			b := cell.NewBuilder()
			if err := b.StoreAddress(addr); err != nil {
				return bitstring.Bits{}, err
			}

			return b.MustBuild().Bits(), nil
		},
		Decode: func(b bitstring.Bits) (string, error) {
			bld := cell.NewBuilder()
			if err := bld.StoreBits(b); err != nil {
				return "", err
			}
			addr, err := bld.MustBuild().BeginParse().LoadAddress()
			if err != nil {
				return "", err
			}

			return addr.String(), nil
		},
	}
}

// CellValues stores cells as they are.
func CellValues() ValueCodec[*cell.Cell] {
	return ValueCodec[*cell.Cell]{
		Encode: func(v *cell.Cell) (*cell.Cell, error) { return v, nil },
		Decode: func(c *cell.Cell) (*cell.Cell, error) { return c, nil },
	}
}

// UintValues stores unsigned integers of n bits.
func UintValues(n uint) ValueCodec[uint64] {
	return ValueCodec[uint64]{
		Encode: func(v uint64) (*cell.Cell, error) {
			b := cell.NewBuilder()
			if err := b.StoreUint(v, n); err != nil {
				return nil, err
			}

			return b.Build()
		},
		Decode: func(c *cell.Cell) (uint64, error) {
			s := c.BeginParse()
			v, err := s.LoadUint(n)
			if err != nil {
				return 0, err
			}

			return v, expectEnd(s)
		},
	}
}

// CoinsValues stores amounts as VarUInteger 16.
func CoinsValues() ValueCodec[*big.Int] {
	return ValueCodec[*big.Int]{
		Encode: func(v *big.Int) (*cell.Cell, error) {
			b := cell.NewBuilder()
			if err := b.StoreBigCoins(v); err != nil {
				return nil, err
			}

			return b.Build()
		},
		Decode: func(c *cell.Cell) (*big.Int, error) {
			s := c.BeginParse()
			v, err := s.LoadCoins()
			if err != nil {
				return nil, err
			}

			return v, expectEnd(s)
		},
	}
}

func expectEnd(s *cell.Slice) error {
	if s.RemainingBits() != 0 || s.RemainingRefs() != 0 {
		return fmt.Errorf("%w: value has %d unread bits and %d refs", errs.ErrInvalidDict, s.RemainingBits(), s.RemainingRefs())
	}

	return nil
}
