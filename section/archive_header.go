package section

import (
	"fmt"

	"github.com/arloliu/celldag/endian"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

const (
	ArchiveMagic      = 0xCB0C // ArchiveMagic starts every archive envelope.
	ArchiveVersion    = 1      // ArchiveVersion is the only envelope layout so far.
	ArchiveHeaderSize = 16     // ArchiveHeaderSize is the fixed envelope header length.

	// MaxArchiveOriginalSize caps the declared uncompressed size so a
	// forged header cannot force a huge allocation.
	MaxArchiveOriginalSize = 1 << 30
)

// ArchiveHeader precedes the compressed payload of an archive.
//
//	byte 0-1:  magic 0xCB0C (big-endian)
//	byte 2:    version
//	byte 3:    compression type
//	byte 4-7:  original (uncompressed) length, big-endian
//	byte 8-15: xxHash64 of the uncompressed bytes, big-endian
type ArchiveHeader struct {
	Version      uint8
	Compression  format.CompressionType
	OriginalSize uint32
	Checksum     uint64
}

// NewArchiveHeader creates a current-version header.
func NewArchiveHeader(compression format.CompressionType, originalSize uint32, checksum uint64) ArchiveHeader {
	return ArchiveHeader{
		Version:      ArchiveVersion,
		Compression:  compression,
		OriginalSize: originalSize,
		Checksum:     checksum,
	}
}

// Bytes serializes the header.
func (h ArchiveHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, ArchiveHeaderSize))
}

// AppendTo appends the serialized header to dst.
func (h ArchiveHeader) AppendTo(dst []byte) []byte {
	engine := endian.GetBigEndianEngine()
	dst = engine.AppendUint16(dst, ArchiveMagic)
	dst = append(dst, h.Version, byte(h.Compression))
	dst = engine.AppendUint32(dst, h.OriginalSize)

	return engine.AppendUint64(dst, h.Checksum)
}

// ParseArchiveHeader parses and validates the header at the start of data.
func ParseArchiveHeader(data []byte) (ArchiveHeader, error) {
	if len(data) < ArchiveHeaderSize {
		return ArchiveHeader{}, fmt.Errorf("%w: %d bytes, header needs %d", errs.ErrInvalidArchive, len(data), ArchiveHeaderSize)
	}

	engine := endian.GetBigEndianEngine()
	if magic := engine.Uint16(data[0:2]); magic != ArchiveMagic {
		return ArchiveHeader{}, fmt.Errorf("%w: magic 0x%04X", errs.ErrInvalidArchive, magic)
	}

	h := ArchiveHeader{
		Version:      data[2],
		Compression:  format.CompressionType(data[3]),
		OriginalSize: engine.Uint32(data[4:8]),
		Checksum:     engine.Uint64(data[8:16]),
	}

	if h.Version != ArchiveVersion {
		return ArchiveHeader{}, fmt.Errorf("%w: version %d", errs.ErrInvalidArchive, h.Version)
	}
	if h.OriginalSize > MaxArchiveOriginalSize {
		return ArchiveHeader{}, fmt.Errorf("%w: original size %d exceeds limit", errs.ErrInvalidArchive, h.OriginalSize)
	}

	return h, nil
}
