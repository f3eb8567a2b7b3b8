package celldag

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/archive"
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
	"github.com/arloliu/celldag/internal/hash"
)

func TestToBOC_EmptyCell(t *testing.T) {
	boc, err := ToBOC(NewBuilder().MustBuild())
	require.NoError(t, err)
	require.Equal(t, "b5ee9c724101010100020000004cacb9cd", hex.EncodeToString(boc))

	root, err := FromBOC(boc)
	require.NoError(t, err)
	h := root.Hash()
	require.Equal(t,
		"96a296d224f285c67bee93c30f8a309157f0daa35dc5b87e410b78630a09cfc7",
		hex.EncodeToString(h[:]))
}

func TestBuildAndRead(t *testing.T) {
	d := NewDict(32)
	v := NewBuilder()
	require.NoError(t, v.StoreUint(5, 8))
	require.NoError(t, d.SetUintKey(7, v.MustBuild()))

	b := NewBuilder()
	require.NoError(t, b.StoreUint(0x0F8A7EA5, 32))
	require.NoError(t, b.StoreCoins(1_000_000_000))
	require.NoError(t, b.StoreDict(d))
	root := b.MustBuild()

	boc, err := ToBOC(root, cell.WithIndex(true))
	require.NoError(t, err)

	back, err := FromBOC(boc)
	require.NoError(t, err)
	require.True(t, root.Equal(back))

	s := back.BeginParse()
	op, err := s.LoadUint(32)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0F8A7EA5), op)
	coins, err := s.LoadCoins()
	require.NoError(t, err)
	require.Equal(t, int64(1_000_000_000), coins.Int64())

	got, err := s.LoadDict(32)
	require.NoError(t, err)
	leaf, err := got.GetUintKey(7)
	require.NoError(t, err)
	require.True(t, leaf.Equal(v.MustBuild()))
}

func TestParse(t *testing.T) {
	bits, err := Parse("x{B4_}")
	require.NoError(t, err)
	require.Equal(t, uint(6), bits.Len())

	other, err := Parse("b{101101}")
	require.NoError(t, err)
	require.True(t, bits.Equal(other))

	_, err = Parse("B4")
	require.ErrorIs(t, err, errs.ErrInvalidBitLiteral)
}

func TestPackUnpack(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.StoreZeroes(900))
	root := b.MustBuild()

	packed, err := Pack(root, archive.WithCompression(format.CompressionS2))
	require.NoError(t, err)

	back, err := Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, root.Hash(), back.Hash())

	_, err = Unpack(packed[:4])
	require.ErrorIs(t, err, errs.ErrInvalidArchive)
}

func TestCellID(t *testing.T) {
	a := NewBuilder().MustBuild()
	b := cell.EmptyCell()

	require.Equal(t, CellID(a), CellID(b))
	require.Equal(t, hash.Fingerprint(a.Hash()), CellID(a))
}
