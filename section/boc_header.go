package section

import (
	"fmt"
	"slices"

	"github.com/arloliu/celldag/endian"
	"github.com/arloliu/celldag/errs"
)

// BOCHeader is the parsed fixed part of a bag of cells, root list included.
type BOCHeader struct {
	// Magic identifies the header layout, one of the Magic* constants.
	Magic uint32
	// Flag holds the option bits and the ref size.
	Flag BOCFlag
	// OffsetSize is the byte width of TotalCellsSize and of index entries.
	OffsetSize int
	// CellCount is the number of cell records.
	CellCount int
	// RootCount is the number of roots.
	RootCount int
	// AbsentCount is the number of absent (pruned out) cells.
	AbsentCount int
	// TotalCellsSize is the byte length of all cell records.
	TotalCellsSize uint64
	// Roots holds the index of every root cell, in declaration order.
	Roots []int
}

// NewBOCHeader creates a generic header sized for the given cell count and
// total record size. Ref and offset widths are the minimal ones that fit.
func NewBOCHeader(cellCount int, totalCellsSize uint64, roots []int) *BOCHeader {
	return &BOCHeader{
		Magic:          MagicGeneric,
		Flag:           NewBOCFlag(RefSizeFor(cellCount)),
		OffsetSize:     OffsetSizeFor(totalCellsSize),
		CellCount:      cellCount,
		RootCount:      len(roots),
		TotalCellsSize: totalCellsSize,
		Roots:          roots,
	}
}

// RefSizeFor returns the ref byte width needed to address cellCount cells.
func RefSizeFor(cellCount int) int {
	return endian.BytesFor(uint64(cellCount)) //nolint:gosec
}

// OffsetSizeFor returns the offset byte width needed for a total record size.
func OffsetSizeFor(totalCellsSize uint64) int {
	return endian.BytesFor(totalCellsSize)
}

// RefSize returns the byte width of cell references.
func (h *BOCHeader) RefSize() int {
	return h.Flag.RefSize()
}

// HasIndex reports whether an index table follows the header.
func (h *BOCHeader) HasIndex() bool {
	return h.Flag.HasIndex()
}

// HasCRC32C reports whether a crc32c trailer ends the bag.
func (h *BOCHeader) HasCRC32C() bool {
	return h.Flag.HasCRC32C()
}

// Len returns the encoded header length in bytes, root list included.
func (h *BOCHeader) Len() int {
	n := MagicSize + 2 + 3*h.RefSize() + h.OffsetSize
	if h.Magic == MagicGeneric {
		n += h.RootCount * h.RefSize()
	}

	return n
}

// IndexLen returns the byte length of the index table, zero when absent.
func (h *BOCHeader) IndexLen() int {
	if !h.HasIndex() {
		return 0
	}

	return h.CellCount * h.OffsetSize
}

// Size returns the total byte length of the bag described by h.
func (h *BOCHeader) Size() uint64 {
	n := uint64(h.Len()+h.IndexLen()) + h.TotalCellsSize //nolint:gosec
	if h.HasCRC32C() {
		n += CRC32CSize
	}

	return n
}

// Bytes serializes the header in the generic layout.
func (h *BOCHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, h.Len()))
}

// AppendTo appends the generic header encoding to buf.
func (h *BOCHeader) AppendTo(buf []byte) []byte {
	engine := endian.GetBigEndianEngine()
	size := h.RefSize()

	buf = engine.AppendUint32(buf, MagicGeneric)
	buf = append(buf, byte(h.Flag), byte(h.OffsetSize))        //nolint:gosec
	buf = endian.AppendUintN(buf, uint64(h.CellCount), size)   //nolint:gosec
	buf = endian.AppendUintN(buf, uint64(h.RootCount), size)   //nolint:gosec
	buf = endian.AppendUintN(buf, uint64(h.AbsentCount), size) //nolint:gosec
	buf = endian.AppendUintN(buf, h.TotalCellsSize, h.OffsetSize)
	for _, root := range h.Roots {
		buf = endian.AppendUintN(buf, uint64(root), size) //nolint:gosec
	}

	return buf
}

// ParseBOCHeader parses and validates the header at the start of data.
//
// Returns:
//   - BOCHeader: Parsed header, Roots filled in
//   - int: Header length in bytes (the index table or cell records start here)
//   - error: ErrInvalidMagic, or ErrMalformedBOC for truncated or inconsistent fields
func ParseBOCHeader(data []byte) (BOCHeader, int, error) {
	if len(data) < MinHeaderSize {
		return BOCHeader{}, 0, fmt.Errorf("%w: %d bytes is shorter than the minimal header", errs.ErrMalformedBOC, len(data))
	}

	h := BOCHeader{Magic: endian.GetBigEndianEngine().Uint32(data[:MagicSize])}
	switch h.Magic {
	case MagicGeneric:
		h.Flag = BOCFlag(data[4])
	case MagicIndexed, MagicIndexedCRC32C:
		h.Flag = NewBOCFlag(int(data[4] & RefSizeMask))
		h.Flag.WithIndex(true)
		h.Flag.WithCRC32C(h.Magic == MagicIndexedCRC32C)
	default:
		return BOCHeader{}, 0, fmt.Errorf("%w: 0x%08x", errs.ErrInvalidMagic, h.Magic)
	}
	if err := h.Flag.Validate(); err != nil {
		return BOCHeader{}, 0, err
	}

	h.OffsetSize = int(data[5])
	if h.OffsetSize < 1 || h.OffsetSize > MaxOffsetSize {
		return BOCHeader{}, 0, fmt.Errorf("%w: offset size %d not in [1, %d]", errs.ErrMalformedBOC, h.OffsetSize, MaxOffsetSize)
	}

	size := h.RefSize()
	pos := MagicSize + 2
	if len(data) < pos+3*size+h.OffsetSize {
		return BOCHeader{}, 0, fmt.Errorf("%w: truncated header", errs.ErrMalformedBOC)
	}

	h.CellCount = int(endian.UintN(data[pos:], size)) //nolint:gosec
	pos += size
	h.RootCount = int(endian.UintN(data[pos:], size)) //nolint:gosec
	pos += size
	h.AbsentCount = int(endian.UintN(data[pos:], size)) //nolint:gosec
	pos += size
	h.TotalCellsSize = endian.UintN(data[pos:], h.OffsetSize)
	pos += h.OffsetSize

	if err := h.validateCounts(); err != nil {
		return BOCHeader{}, 0, err
	}

	if h.Magic != MagicGeneric {
		h.Roots = []int{0}
		return h, pos, nil
	}

	if len(data) < pos+h.RootCount*size {
		return BOCHeader{}, 0, fmt.Errorf("%w: truncated root list", errs.ErrMalformedBOC)
	}
	h.Roots = make([]int, h.RootCount)
	for i := range h.Roots {
		root := int(endian.UintN(data[pos:], size)) //nolint:gosec
		if root >= h.CellCount {
			return BOCHeader{}, 0, fmt.Errorf("%w: root %d points at cell %d of %d", errs.ErrInvalidRefIndex, i, root, h.CellCount)
		}
		h.Roots[i] = root
		pos += size
	}
	if !slices.Contains(h.Roots, 0) {
		return BOCHeader{}, 0, fmt.Errorf("%w: cell 0 is not a root", errs.ErrMalformedBOC)
	}

	return h, pos, nil
}

func (h *BOCHeader) validateCounts() error {
	switch {
	case h.CellCount == 0:
		return fmt.Errorf("%w: no cells", errs.ErrMalformedBOC)
	case h.RootCount == 0:
		return fmt.Errorf("%w: no roots", errs.ErrMalformedBOC)
	case h.RootCount > h.CellCount:
		return fmt.Errorf("%w: %d roots for %d cells", errs.ErrMalformedBOC, h.RootCount, h.CellCount)
	case h.Magic != MagicGeneric && h.RootCount != 1:
		return fmt.Errorf("%w: legacy bag with %d roots", errs.ErrMalformedBOC, h.RootCount)
	case h.AbsentCount > h.CellCount:
		return fmt.Errorf("%w: %d absent cells for %d cells", errs.ErrMalformedBOC, h.AbsentCount, h.CellCount)
	case h.TotalCellsSize < uint64(h.CellCount)*2: //nolint:gosec
		return fmt.Errorf("%w: %d bytes cannot hold %d cells", errs.ErrMalformedBOC, h.TotalCellsSize, h.CellCount)
	default:
		return nil
	}
}
