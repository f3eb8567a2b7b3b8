// Package archive wraps a serialized bag of cells in a compressed,
// checksummed envelope for storage and transport.
//
// An archive is a 16-byte section.ArchiveHeader followed by the payload
// compressed with the recorded codec. The header carries the uncompressed
// length and its xxHash64, both verified by Unpack.
//
//	packed, err := archive.PackCells([]*cell.Cell{root}, archive.WithCompression(format.CompressionS2))
//	roots, err := archive.UnpackCells(packed)
package archive

import (
	"bytes"
	"fmt"

	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/compress"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/internal/hash"
	"github.com/arloliu/celldag/internal/options"
	"github.com/arloliu/celldag/internal/pool"
	"github.com/arloliu/celldag/section"
)

// Pack compresses boc into an archive. boc is not validated; use PackCells
// to serialize and pack in one step.
func Pack(boc []byte, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return pack(boc, cfg)
}

func pack(boc []byte, cfg *config) ([]byte, error) {
	if len(boc) > section.MaxArchiveOriginalSize {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit", errs.ErrInvalidArchive, len(boc))
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(boc)
	if err != nil {
		return nil, fmt.Errorf("compress %s payload: %w", cfg.compression, err)
	}

	h := section.NewArchiveHeader(cfg.compression, uint32(len(boc)), hash.Sum64(boc)) //nolint:gosec

	buf := pool.GetArchiveBuffer()
	defer pool.PutArchiveBuffer(buf)

	buf.Grow(section.ArchiveHeaderSize + len(payload))
	buf.MustWrite(h.Bytes())
	buf.MustWrite(payload)

	return bytes.Clone(buf.Bytes()), nil
}

// Inspect parses the archive header without decompressing.
func Inspect(data []byte) (section.ArchiveHeader, error) {
	return section.ParseArchiveHeader(data)
}

// Unpack verifies and decompresses an archive, returning the original
// bytes. Any mismatch wraps errs.ErrInvalidArchive.
func Unpack(data []byte) ([]byte, error) {
	h, err := section.ParseArchiveHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[section.ArchiveHeaderSize:]

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	raw, err := codec.DecompressSize(payload, int(h.OriginalSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s payload: %w", errs.ErrInvalidArchive, h.Compression, err)
	}

	if len(raw) != int(h.OriginalSize) {
		return nil, fmt.Errorf("%w: length %d, header says %d", errs.ErrInvalidArchive, len(raw), h.OriginalSize)
	}
	if sum := hash.Sum64(raw); sum != h.Checksum {
		return nil, fmt.Errorf("%w: checksum %016x, header says %016x", errs.ErrInvalidArchive, sum, h.Checksum)
	}

	return raw, nil
}

// PackCells serializes roots as a bag of cells and packs it.
func PackCells(roots []*cell.Cell, opts ...Option) ([]byte, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	boc, err := cell.Serialize(roots, cfg.serialize...)
	if err != nil {
		return nil, err
	}

	return pack(boc, cfg)
}

// UnpackCells unpacks an archive and deserializes every root of the
// contained bag of cells.
func UnpackCells(data []byte) ([]*cell.Cell, error) {
	boc, err := Unpack(data)
	if err != nil {
		return nil, err
	}

	return cell.Deserialize(boc)
}
