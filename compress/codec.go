package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

// Compressor compresses serialized bags of cells.
//
// Returned slices are owned by the caller; the input is never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm. It returns an
// error when the input is corrupted or was produced by another algorithm.
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// SizedDecompressor decodes a payload whose decoded length is known, as
// it is inside an archive envelope. Output never grows past size bytes; a
// payload that decodes to more returns an error wrapping errs.ErrCapacity.
type SizedDecompressor interface {
	DecompressSize(data []byte, size int) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
	SizedDecompressor
}

func errDecodedSize(size int) error {
	return fmt.Errorf("%w: payload decodes to more than %d bytes", errs.ErrCapacity, size)
}

// readAtMost drains r, growing the buffer as data arrives and failing once
// more than size bytes come out.
func readAtMost(r io.Reader, size int) ([]byte, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, int64(size)+1))
	if err != nil {
		return nil, err
	}
	if n > int64(size) {
		return nil, errDecodedSize(size)
	}

	return buf.Bytes(), nil
}

// Stats describes the outcome of compressing one payload.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// NewStats records the sizes before and after compression.
func NewStats(algo format.CompressionType, original, compressed int) Stats {
	return Stats{Algorithm: algo, OriginalSize: int64(original), CompressedSize: int64(compressed)}
}

// Ratio returns compressed size / original size, 0 for an empty input.
// Values below 1.0 mean the payload shrank.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

// CreateCodec returns a fresh Codec for compressionType. target names the
// payload in the error message.
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: invalid %s compression %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
