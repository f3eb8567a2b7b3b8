package bitstring

import (
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

func TestNew(t *testing.T) {
	b, err := New([]byte{0xFF, 0xFF}, 10)
	require.NoError(t, err)
	require.Equal(t, uint(10), b.Len())
	require.Equal(t, []byte{0xFF, 0xC0}, b.Bytes())

	_, err = New([]byte{0xFF}, 9)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
}

func TestTaggedForms(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    []byte
	}{
		{"empty", "x{}", []byte{}},
		{"five bits", "b{10110}", []byte{0xB4}},
		{"byte aligned", "x{AB}", []byte{0xAB}},
		{"seven bits", "b{1111111}", []byte{0xFF}},
		{"nine bits", "b{000000001}", []byte{0x00, 0xC0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := MustParse(tt.literal)
			require.Equal(t, hexOf(tt.want), hexOf(b.Tagged()))
		})
	}
}

func TestTagged(t *testing.T) {
	b := MustParse("b{10110}")
	require.Equal(t, []byte{0xB4}, b.Tagged())

	back, err := FromTagged(b.Tagged())
	require.NoError(t, err)
	require.True(t, b.Equal(back))

	aligned := FromBytes([]byte{0x12, 0x34})
	require.Equal(t, []byte{0x12, 0x34}, aligned.Tagged())

	_, err = FromTagged([]byte{0x12, 0x00})
	require.ErrorIs(t, err, errs.ErrInvalidBitLiteral)
}

func TestSubAndCommonPrefix(t *testing.T) {
	b := MustParse("b{1011001110}")

	sub, err := b.Sub(2, 5)
	require.NoError(t, err)
	require.Equal(t, "b{11001}", mustFormat(t, sub, format.FiftBin))

	_, err = b.Sub(8, 5)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)

	other := MustParse("b{1011011}")
	require.Equal(t, uint(5), b.CommonPrefixLen(other))
	require.Equal(t, uint(10), b.CommonPrefixLen(b))

	long1 := FromBytes([]byte{0xAA, 0xBB, 0xCC})
	long2 := FromBytes([]byte{0xAA, 0xBB, 0xCD})
	require.Equal(t, uint(23), long1.CommonPrefixLen(long2))
}

func TestBuilderIntegers(t *testing.T) {
	bld := NewBuilder()
	require.NoError(t, bld.StoreUint(5, 3))
	require.NoError(t, bld.StoreInt(-3, 4))
	require.NoError(t, bld.StoreUint(math.MaxUint64, 64))
	require.NoError(t, bld.StoreInt(math.MinInt64, 64))
	require.NoError(t, bld.StoreBit(true))
	require.NoError(t, bld.StoreUint(0, 0))

	s := bld.Build().Slice()
	u, err := s.LoadUint(3)
	require.NoError(t, err)
	require.Equal(t, uint64(5), u)

	i, err := s.LoadInt(4)
	require.NoError(t, err)
	require.Equal(t, int64(-3), i)

	u, err = s.LoadUint(64)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), u)

	i, err = s.LoadInt(64)
	require.NoError(t, err)
	require.Equal(t, int64(math.MinInt64), i)

	bit, err := s.LoadBit()
	require.NoError(t, err)
	require.True(t, bit)
	require.Equal(t, uint(0), s.Remaining())
}

func TestBuilderRangeChecks(t *testing.T) {
	bld := NewBuilder()

	require.ErrorIs(t, bld.StoreUint(8, 3), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreInt(4, 3), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreInt(-5, 3), errs.ErrValueOutOfRange)
	require.NoError(t, bld.StoreInt(-4, 3))
	require.ErrorIs(t, bld.StoreInt(1, 0), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreUint(1, 65), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreBigUint(big.NewInt(-1), 8), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreBigUint(big.NewInt(256), 8), errs.ErrValueOutOfRange)
	require.ErrorIs(t, bld.StoreBigInt(big.NewInt(128), 8), errs.ErrValueOutOfRange)
	require.Equal(t, uint(3), bld.Len())
}

func TestBuilderOverflowLeavesStateUntouched(t *testing.T) {
	bld := NewBuilder()
	require.NoError(t, bld.StoreZeroes(1000))
	before := bld.Build()

	require.ErrorIs(t, bld.StoreUint(0, 24), errs.ErrBitsOverflow)
	require.ErrorIs(t, bld.StoreBytes(make([]byte, 3)), errs.ErrBitsOverflow)
	require.ErrorIs(t, bld.StoreString("abc"), errs.ErrBitsOverflow)
	require.ErrorIs(t, bld.StoreOnes(24), errs.ErrBitsOverflow)
	require.ErrorIs(t, bld.StoreBits(FromBytes(make([]byte, 3))), errs.ErrBitsOverflow)
	require.ErrorIs(t, bld.StoreBigUint(big.NewInt(1), 24), errs.ErrBitsOverflow)

	require.True(t, before.Equal(bld.Build()))
	require.Equal(t, uint(23), bld.Free())

	require.NoError(t, bld.StoreOnes(23))
	require.Equal(t, uint(MaxBits), bld.Len())
	require.ErrorIs(t, bld.StoreBit(false), errs.ErrBitsOverflow)
}

func TestBigIntegers(t *testing.T) {
	maxU256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	minI257 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 256))

	bld := NewBuilder()
	require.NoError(t, bld.StoreBigUint(maxU256, 256))
	require.NoError(t, bld.StoreBigInt(minI257, 257))
	require.NoError(t, bld.StoreBigInt(big.NewInt(-1), 13))
	require.NoError(t, bld.StoreBigUint(big.NewInt(0x1ABC), 13))

	s := bld.Build().Slice()
	v, err := s.LoadBigUint(256)
	require.NoError(t, err)
	require.Equal(t, 0, maxU256.Cmp(v))

	v, err = s.LoadBigInt(257)
	require.NoError(t, err)
	require.Equal(t, 0, minI257.Cmp(v))

	v, err = s.LoadBigInt(13)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v.Int64())

	v, err = s.LoadBigUint(13)
	require.NoError(t, err)
	require.Equal(t, int64(0x1ABC), v.Int64())
}

func TestVarUint(t *testing.T) {
	bld := NewBuilder()
	require.NoError(t, bld.StoreVarUint(0, 4))
	require.NoError(t, bld.StoreVarUint(1_000_000_000, 4))
	require.Equal(t, uint(4+4+4*8), bld.Len())

	tooBig := new(big.Int).Lsh(big.NewInt(1), 120)
	require.ErrorIs(t, bld.StoreBigVarUint(tooBig, 4), errs.ErrValueOutOfRange)

	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	require.NoError(t, bld.StoreBigVarUint(huge, 4))

	s := bld.Build().Slice()
	v, err := s.LoadVarUint(4)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)

	v, err = s.LoadVarUint(4)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), v)

	offset := s.Offset()
	_, err = s.LoadVarUint(4)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
	require.Equal(t, offset, s.Offset())

	bv, err := s.LoadBigVarUint(4)
	require.NoError(t, err)
	require.Equal(t, 0, huge.Cmp(bv))
}

func TestString(t *testing.T) {
	bld := NewBuilder()
	require.NoError(t, bld.StoreBit(true))
	require.NoError(t, bld.StoreString("hello"))
	require.ErrorIs(t, bld.StoreString(string(make([]byte, 256))), errs.ErrValueOutOfRange)

	s := bld.Build().Slice()
	require.NoError(t, s.Skip(1))
	str, err := s.LoadString()
	require.NoError(t, err)
	require.Equal(t, "hello", str)
}

func TestSliceUnderflowLeavesStateUntouched(t *testing.T) {
	s := MustParse("x{ABCD}").Slice()
	require.NoError(t, s.Skip(4))

	_, err := s.LoadUint(13)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
	_, err = s.LoadBits(13)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
	_, err = s.LoadBytes(2)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
	for _, n := range []uint{math.MaxUint/8 + 1, math.MaxUint / 4, math.MaxUint} {
		_, err = s.LoadBytes(n)
		require.ErrorIs(t, err, errs.ErrBitsUnderflow, "LoadBytes(%d)", n)
	}
	_, err = s.LoadBigInt(20)
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
	require.ErrorIs(t, s.Skip(13), errs.ErrBitsUnderflow)

	require.Equal(t, uint(12), s.Remaining())
	require.Equal(t, uint(4), s.Offset())

	// a length prefix promising more data than is left must not consume the prefix
	str := NewBuilder()
	require.NoError(t, str.StoreUint(10, 8))
	require.NoError(t, str.StoreBytes([]byte("abc")))
	ss := str.Build().Slice()
	_, err = ss.LoadString()
	require.ErrorIs(t, err, errs.ErrBitsUnderflow)
	require.Equal(t, uint(0), ss.Offset())
}

func TestPeek(t *testing.T) {
	s := MustParse("b{1101}").Slice()

	v, err := s.PeekUint(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0b110), v)

	bits, err := s.PeekBits(4)
	require.NoError(t, err)
	require.Equal(t, "x{D}", bits.String())
	require.Equal(t, uint(4), s.Remaining())

	clone := s.Clone()
	require.NoError(t, clone.Skip(2))
	require.Equal(t, uint(4), s.Remaining())
	require.Equal(t, "b{01}", mustFormat(t, clone.Rest(), format.FiftBin))
}

func TestUnalignedCopies(t *testing.T) {
	src := MustParse("x{DEADBEEF}")

	bld := NewBuilder()
	require.NoError(t, bld.StoreUint(1, 3))
	require.NoError(t, bld.StoreBits(src))

	s := bld.Build().Slice()
	require.NoError(t, s.Skip(3))
	got, err := s.LoadBits(32)
	require.NoError(t, err)
	require.True(t, src.Equal(got))

	// StoreSlice appends the unread remainder, unaligned on both sides
	rs := src.Slice()
	require.NoError(t, rs.Skip(5))
	dst := NewBuilder()
	require.NoError(t, dst.StoreBit(true))
	require.NoError(t, dst.StoreSlice(rs))
	require.Equal(t, uint(28), dst.Len())
	require.Equal(t, uint(27), rs.Remaining())

	out := dst.Build().Slice()
	require.NoError(t, out.Skip(1))
	want, err := src.Sub(5, 27)
	require.NoError(t, err)
	require.True(t, want.Equal(out.Rest()))
}

func mustFormat(t *testing.T, b Bits, f format.TextFormat) string {
	t.Helper()

	s, err := b.Format(f)
	require.NoError(t, err)

	return s
}

func hexOf(b []byte) string {
	return fmt.Sprintf("%x", b)
}
