package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// sampleBOC serializes a chain of cells that share long zero runs.
func sampleBOC(t testing.TB, depth int) []byte {
	t.Helper()

	c := cell.EmptyCell()
	for i := range depth {
		b := cell.NewBuilder()
		require.NoError(t, b.StoreUint(uint64(i), 32))
		require.NoError(t, b.StoreZeroes(512))
		require.NoError(t, b.StoreRef(c))
		c = b.MustBuild()
	}

	boc, err := c.ToBOC()
	require.NoError(t, err)

	return boc
}

func TestCodecs_RoundTrip(t *testing.T) {
	boc := sampleBOC(t, 64)

	for _, typ := range allTypes {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			packed, err := codec.Compress(boc)
			require.NoError(t, err)
			if typ != format.CompressionNone {
				require.Less(t, len(packed), len(boc))
			}

			out, err := codec.Decompress(packed)
			require.NoError(t, err)
			require.Equal(t, boc, out)

			root, err := cell.FromBOC(out)
			require.NoError(t, err)
			require.Equal(t, uint16(64), root.Depth())
		})
	}
}

func TestCodecs_Empty(t *testing.T) {
	for _, typ := range allTypes {
		codec, err := CreateCodec(typ, "test")
		require.NoError(t, err)

		packed, err := codec.Compress(nil)
		require.NoError(t, err)
		require.Empty(t, packed)

		out, err := codec.Decompress(packed)
		require.NoError(t, err)
		require.Empty(t, out)
	}
}

func TestCodecs_Corrupted(t *testing.T) {
	garbage := bytes.Repeat([]byte{0xFF, 0x00, 0xAB}, 40)

	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestCodecs_DecompressSize(t *testing.T) {
	boc := sampleBOC(t, 64)

	for _, typ := range allTypes {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			packed, err := codec.Compress(boc)
			require.NoError(t, err)

			out, err := codec.DecompressSize(packed, len(boc))
			require.NoError(t, err)
			require.Equal(t, boc, out)

			_, err = codec.DecompressSize(packed, len(boc)-1)
			require.ErrorIs(t, err, errs.ErrCapacity)

			_, err = codec.DecompressSize(packed, 16)
			require.ErrorIs(t, err, errs.ErrCapacity)
		})
	}
}

func TestLZ4_GrowsBuffer(t *testing.T) {
	// zeros compress far beyond the initial 4x guess
	data := make([]byte, 64*1024)
	codec := NewLZ4Compressor()

	packed, err := codec.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(packed)*4, len(data))

	out, err := codec.Decompress(packed)
	require.NoError(t, err)
	require.Equal(t, data, out)

	sized, err := codec.DecompressSize(packed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, sized)
}

func TestNoOp_SharesMemory(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := NewNoOpCompressor().Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestCodecLookup_Unsupported(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x7F))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)

	_, err = CreateCodec(format.CompressionType(0), "archive")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Contains(t, err.Error(), "archive")
}

func TestStats(t *testing.T) {
	s := NewStats(format.CompressionZstd, 200, 50)
	require.InDelta(t, 0.25, s.Ratio(), 1e-9)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)

	empty := NewStats(format.CompressionNone, 0, 0)
	require.Zero(t, empty.Ratio())
	require.Zero(t, empty.SpaceSavings())
}
