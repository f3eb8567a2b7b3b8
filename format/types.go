package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/celldag/errs"
)

type (
	TextFormat      uint8
	CompressionType uint8
	CellType        uint8
)

const (
	Hex       TextFormat = 0x1 // Hex is plain hex, "_" marks a partial last nibble.
	Binary    TextFormat = 0x2 // Binary is a string of '0' and '1'.
	Base64    TextFormat = 0x3 // Base64 is standard padded base64.
	Base64URL TextFormat = 0x4 // Base64URL is URL-safe padded base64.
	FiftHex   TextFormat = 0x5 // FiftHex is hex wrapped as x{...}.
	FiftBin   TextFormat = 0x6 // FiftBin is binary wrapped as b{...}.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	// Ordinary is the default cell type; the rest are exotic and encode their
	// type in the first payload byte.
	Ordinary     CellType = 0xFF
	PrunedBranch CellType = 0x1
	Library      CellType = 0x2
	MerkleProof  CellType = 0x3
	MerkleUpdate CellType = 0x4
)

func (f TextFormat) String() string {
	switch f {
	case Hex:
		return "hex"
	case Binary:
		return "binary"
	case Base64:
		return "base64"
	case Base64URL:
		return "base64url"
	case FiftHex:
		return "fift-hex"
	case FiftBin:
		return "fift-bin"
	default:
		return "unknown"
	}
}

// ParseTextFormat parses a format name as printed by TextFormat.String.
// Matching is case-insensitive and accepts "fifthex"/"fiftbin" without the dash.
func ParseTextFormat(name string) (TextFormat, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "_", "-") {
	case "hex":
		return Hex, nil
	case "binary", "bin":
		return Binary, nil
	case "base64":
		return Base64, nil
	case "base64url":
		return Base64URL, nil
	case "fift-hex", "fifthex":
		return FiftHex, nil
	case "fift-bin", "fiftbin":
		return FiftBin, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedFormat, name)
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a compression name, case-insensitive.
func ParseCompressionType(name string) (CompressionType, error) {
	switch strings.ToLower(name) {
	case "none", "":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, name)
	}
}

func (t CellType) String() string {
	switch t {
	case Ordinary:
		return "ordinary"
	case PrunedBranch:
		return "pruned-branch"
	case Library:
		return "library"
	case MerkleProof:
		return "merkle-proof"
	case MerkleUpdate:
		return "merkle-update"
	default:
		return "unknown"
	}
}

// IsExotic reports whether t is one of the exotic cell types.
func (t CellType) IsExotic() bool {
	return t != Ordinary
}

// Valid reports whether t is a known cell type.
func (t CellType) Valid() bool {
	switch t {
	case Ordinary, PrunedBranch, Library, MerkleProof, MerkleUpdate:
		return true
	default:
		return false
	}
}
