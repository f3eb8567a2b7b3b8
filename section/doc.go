// Package section defines the low-level binary structures of the bag-of-cells format.
//
// It handles the serialized header: magic number, packed flag byte, size
// fields and root list. Cell records themselves are written by the cell
// package, which uses this package to lay out and validate the header.
//
// # Bag Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Magic (4 bytes, big-endian)                             │
//	│  - 0xB5EE9C72 generic                                   │
//	│  - 0x68FF65F3 legacy indexed                            │
//	│  - 0xACC3A728 legacy indexed + crc32c                   │
//	├─────────────────────────────────────────────────────────┤
//	│ Flag (1 byte)                                           │
//	│ OffsetSize (1 byte, 1..8)                               │
//	├─────────────────────────────────────────────────────────┤
//	│ CellCount    (RefSize bytes)                            │
//	│ RootCount    (RefSize bytes)                            │
//	│ AbsentCount  (RefSize bytes)                            │
//	│ TotalCellsSize (OffsetSize bytes)                       │
//	├─────────────────────────────────────────────────────────┤
//	│ Root list (RootCount × RefSize bytes, generic only)     │
//	├─────────────────────────────────────────────────────────┤
//	│ Index (CellCount × OffsetSize bytes, optional)          │
//	│  - cumulative end offset of each cell record            │
//	├─────────────────────────────────────────────────────────┤
//	│ Cell records (TotalCellsSize bytes)                     │
//	├─────────────────────────────────────────────────────────┤
//	│ CRC32C (4 bytes, little-endian, optional)               │
//	└─────────────────────────────────────────────────────────┘
//
// All size fields are big-endian. The CRC32C trailer covers every byte
// before it, magic included.
//
// # Flag Format
//
//	Bit 7:    has index
//	Bit 6:    has crc32c
//	Bit 5:    has cache bits (index entries are offset*2 + cache flag)
//	Bits 3-4: reserved, must be 0
//	Bits 0-2: RefSize in bytes (1..4)
//
// The legacy magics carry only the RefSize in the flag byte; they always
// have an index and no root list (the single root is cell 0).
//
// # Thread Safety
//
// BOCFlag is a value type. BOCHeader is not safe for concurrent mutation.
package section
