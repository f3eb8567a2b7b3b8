package cell

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

// mustCell builds an ordinary cell from a fift literal and refs.
func mustCell(t testing.TB, literal string, refs ...*Cell) *Cell {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.StoreBits(bitstring.MustParse(literal)))
	for _, ref := range refs {
		require.NoError(t, b.StoreRef(ref))
	}
	c, err := b.Build()
	require.NoError(t, err)

	return c
}

func TestEmptyCell(t *testing.T) {
	c := EmptyCell()

	require.Equal(t, uint(0), c.BitsLen())
	require.Equal(t, 0, c.RefsNum())
	require.Equal(t, uint16(0), c.Depth())
	require.Equal(t, [2]byte{0, 0}, c.Descriptors())

	h := c.Hash()
	require.Equal(t, "96a296d224f285c67bee93c30f8a309157f0daa35dc5b87e410b78630a09cfc7", hex.EncodeToString(h[:]))
	require.True(t, c.Equal(NewBuilder().MustBuild()))
}

func TestCell_HashWithChild(t *testing.T) {
	child := mustCell(t, "x{ABCD}")
	parent := mustCell(t, "b{10110}", child)

	require.Equal(t, [2]byte{0x01, 0x01}, parent.Descriptors())

	childHash := child.Hash()
	buf := []byte{0x01, 0x01, 0xB4, 0x00, 0x00}
	buf = append(buf, childHash[:]...)

	require.Equal(t, sha256.Sum256(buf), parent.Hash())
	require.Equal(t, uint16(1), parent.Depth())
}

func TestCell_Descriptors(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		refs    int
		want    [2]byte
	}{
		{"empty", "x{}", 0, [2]byte{0, 0}},
		{"one byte", "x{FF}", 0, [2]byte{0, 2}},
		{"seven bits", "b{1010101}", 0, [2]byte{0, 1}},
		{"nine bits with refs", "b{101010101}", 2, [2]byte{2, 3}},
		{"full cell", "x{" + repeat("F", 255) + "E_}", 4, [2]byte{4, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := make([]*Cell, tt.refs)
			for i := range refs {
				refs[i] = EmptyCell()
			}
			c := mustCell(t, tt.literal, refs...)
			require.Equal(t, tt.want, c.Descriptors())
		})
	}
}

func repeat(s string, n int) string {
	out := make([]byte, 0, len(s)*n)
	for range n {
		out = append(out, s...)
	}

	return string(out)
}

func TestCell_Depth(t *testing.T) {
	leaf := mustCell(t, "x{01}")
	mid := mustCell(t, "x{02}", leaf)
	top := mustCell(t, "x{03}", mid, leaf)

	require.Equal(t, uint16(0), leaf.Depth())
	require.Equal(t, uint16(1), mid.Depth())
	require.Equal(t, uint16(2), top.Depth())
}

func TestCell_HashAvalanche(t *testing.T) {
	build := func(leafBits string) *Cell {
		leaf := mustCell(t, leafBits)
		mid := mustCell(t, "x{CAFE}", leaf)

		return mustCell(t, "x{BEEF}", mid, EmptyCell())
	}

	a := build("b{1011}")
	b := build("b{1011}")
	c := build("b{1010}")

	require.Equal(t, a.Hash(), b.Hash())
	require.NotEqual(t, a.Hash(), c.Hash())
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}

func TestCell_ConcurrentHash(t *testing.T) {
	leaf := mustCell(t, "x{DEADBEEF}")
	root := mustCell(t, "x{01}", leaf, leaf)
	want := freshHash(t, root)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Equal(t, want, root.Hash())
		}()
	}
	wg.Wait()
}

// freshHash computes the hash of a fresh copy of c, bypassing the cache.
func freshHash(t *testing.T, c *Cell) [HashSize]byte {
	t.Helper()

	boc, err := c.ToBOC()
	require.NoError(t, err)
	fresh, err := FromBOC(boc)
	require.NoError(t, err)

	return fresh.Hash()
}

func TestCell_Ref(t *testing.T) {
	leaf := mustCell(t, "x{01}")
	c := mustCell(t, "x{}", leaf)

	ref, err := c.Ref(0)
	require.NoError(t, err)
	require.Same(t, leaf, ref)

	_, err = c.Ref(1)
	require.ErrorIs(t, err, errs.ErrRefsUnderflow)

	refs := c.Refs()
	refs[0] = nil
	require.Same(t, leaf, c.Refs()[0])
}

func libraryPayload(t *testing.T) *Builder {
	t.Helper()

	b := NewBuilder()
	require.NoError(t, b.StoreUint(uint64(format.Library), 8))
	require.NoError(t, b.StoreBytes(make([]byte, 32)))

	return b
}

func TestBuilder_BuildExotic(t *testing.T) {
	t.Run("Library", func(t *testing.T) {
		c, err := libraryPayload(t).BuildExotic()
		require.NoError(t, err)
		require.True(t, c.IsExotic())
		require.Equal(t, format.Library, c.Type())
		require.Equal(t, byte(0x08), c.Descriptors()[0])
	})

	t.Run("Pruned branch", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.StoreUint(uint64(format.PrunedBranch), 8))
		require.NoError(t, b.StoreUint(1, 8))
		require.NoError(t, b.StoreBytes(make([]byte, 32)))
		require.NoError(t, b.StoreUint(3, 16))

		c, err := b.BuildExotic()
		require.NoError(t, err)
		require.Equal(t, uint8(1), c.LevelMask())
		require.Equal(t, 1, c.Level())
		require.Equal(t, byte(0x08|1<<5), c.Descriptors()[0])

		parent := mustCell(t, "x{}", c)
		require.Equal(t, uint8(1), parent.LevelMask())
	})

	t.Run("Merkle proof lowers level", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.StoreUint(uint64(format.PrunedBranch), 8))
		require.NoError(t, b.StoreUint(1, 8))
		require.NoError(t, b.StoreBytes(make([]byte, 34)))
		pruned, err := b.BuildExotic()
		require.NoError(t, err)

		inner := mustCell(t, "x{AA}", pruned)
		proof := NewBuilder()
		require.NoError(t, proof.StoreUint(uint64(format.MerkleProof), 8))
		hash := inner.Hash()
		require.NoError(t, proof.StoreBytes(hash[:]))
		require.NoError(t, proof.StoreUint(uint64(inner.Depth()), 16))
		require.NoError(t, proof.StoreRef(inner))

		c, err := proof.BuildExotic()
		require.NoError(t, err)
		require.Equal(t, format.MerkleProof, c.Type())
		require.Equal(t, uint8(0), c.LevelMask())
	})

	t.Run("Unknown type", func(t *testing.T) {
		b := NewBuilder()
		require.NoError(t, b.StoreUint(0x07, 8))
		_, err := b.BuildExotic()
		require.ErrorIs(t, err, errs.ErrUnsupportedCellType)
	})

	t.Run("Bad layout", func(t *testing.T) {
		b := libraryPayload(t)
		require.NoError(t, b.StoreBit(true))
		_, err := b.BuildExotic()
		require.ErrorIs(t, err, errs.ErrInvalidCell)

		_, err = NewBuilder().BuildExotic()
		require.ErrorIs(t, err, errs.ErrInvalidCell)
	})
}
