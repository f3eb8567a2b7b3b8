package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/compress"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
	"github.com/arloliu/celldag/section"
)

func sampleRoot(t *testing.T) *cell.Cell {
	t.Helper()

	leaf := cell.NewBuilder()
	require.NoError(t, leaf.StoreZeroes(800))
	shared := leaf.MustBuild()

	b := cell.NewBuilder()
	require.NoError(t, b.StoreUint(0xDEADBEEF, 32))
	require.NoError(t, b.StoreRef(shared))
	require.NoError(t, b.StoreRef(shared))

	return b.MustBuild()
}

func TestPackCells_RoundTrip(t *testing.T) {
	root := sampleRoot(t)

	for _, typ := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			packed, err := PackCells([]*cell.Cell{root}, WithCompression(typ))
			require.NoError(t, err)

			h, err := Inspect(packed)
			require.NoError(t, err)
			require.Equal(t, typ, h.Compression)
			require.Equal(t, uint8(section.ArchiveVersion), h.Version)

			roots, err := UnpackCells(packed)
			require.NoError(t, err)
			require.Len(t, roots, 1)
			require.Equal(t, root.Hash(), roots[0].Hash())
		})
	}
}

func TestPack_MatchesSerializedBOC(t *testing.T) {
	root := sampleRoot(t)
	boc, err := root.ToBOCWithOptions(cell.WithIndex(true))
	require.NoError(t, err)

	packed, err := PackCells([]*cell.Cell{root}, WithSerializeOptions(cell.WithIndex(true)))
	require.NoError(t, err)

	raw, err := Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, boc, raw)

	h, err := Inspect(packed)
	require.NoError(t, err)
	require.Equal(t, format.CompressionZstd, h.Compression)
	require.Equal(t, uint32(len(boc)), h.OriginalSize)
	require.Less(t, len(packed), len(boc))
}

func TestPack_Empty(t *testing.T) {
	packed, err := Pack(nil, WithCompression(format.CompressionLZ4))
	require.NoError(t, err)
	require.Len(t, packed, section.ArchiveHeaderSize)

	raw, err := Unpack(packed)
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestWithCompression_Unsupported(t *testing.T) {
	_, err := Pack([]byte{1}, WithCompression(format.CompressionType(9)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestUnpack_Corrupted(t *testing.T) {
	root := sampleRoot(t)
	packed, err := PackCells([]*cell.Cell{root}, WithCompression(format.CompressionNone))
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"truncated header", func(b []byte) []byte { return b[:10] }},
		{"magic", func(b []byte) []byte { b[1] ^= 0xFF; return b }},
		{"compression", func(b []byte) []byte { b[3] = 0x7E; return b }},
		{"length", func(b []byte) []byte { b[7]++; return b }},
		{"checksum", func(b []byte) []byte { b[15] ^= 0x01; return b }},
		{"payload", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }},
		{"truncated payload", func(b []byte) []byte { return b[:len(b)-3] }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(append([]byte(nil), packed...))
			_, err := Unpack(data)
			require.ErrorIs(t, err, errs.ErrInvalidArchive)
		})
	}
}

func TestUnpack_PayloadLargerThanHeader(t *testing.T) {
	data := make([]byte, 1<<20)

	for _, typ := range []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := compress.GetCodec(typ)
			require.NoError(t, err)
			payload, err := codec.Compress(data)
			require.NoError(t, err)

			h := section.NewArchiveHeader(typ, 16, 0)
			packed := append(h.Bytes(), payload...)

			_, err = Unpack(packed)
			require.ErrorIs(t, err, errs.ErrInvalidArchive)
			require.ErrorIs(t, err, errs.ErrCapacity)
		})
	}
}

func TestUnpackCells_InvalidBOC(t *testing.T) {
	packed, err := Pack([]byte("not a bag of cells"), WithCompression(format.CompressionS2))
	require.NoError(t, err)

	_, err = UnpackCells(packed)
	require.ErrorIs(t, err, errs.ErrMalformedBOC)
}
