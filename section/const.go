package section

const (
	// Magic numbers
	MagicGeneric       = 0xB5EE9C72 // MagicGeneric is the current bag-of-cells magic.
	MagicIndexed       = 0x68FF65F3 // MagicIndexed is the legacy magic with a mandatory index.
	MagicIndexedCRC32C = 0xACC3A728 // MagicIndexedCRC32C is the legacy indexed magic with a crc32c trailer.

	// Flag bit masks
	IndexMask     = 0x80 // Mask for has-index bit (bit 7)
	CRC32CMask    = 0x40 // Mask for has-crc32c bit (bit 6)
	CacheBitsMask = 0x20 // Mask for has-cache-bits bit (bit 5)
	ReservedMask  = 0x18 // Mask for reserved bits (bits 3-4)
	RefSizeMask   = 0x07 // Mask for ref size (bits 0-2)
)

const (
	MagicSize     = 4 // magic number size in bytes
	CRC32CSize    = 4 // crc32c trailer size in bytes
	MaxRefSize    = 4 // maximum bytes per cell reference / count field
	MaxOffsetSize = 8 // maximum bytes per offset field
	MaxRefs       = 4 // maximum refs a cell may carry

	// MinHeaderSize is magic + flag + offset size + three 1-byte counts + 1-byte total size.
	MinHeaderSize = MagicSize + 2 + 3 + 1
)
