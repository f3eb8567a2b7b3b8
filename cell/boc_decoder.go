package cell

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/checksum"
	"github.com/arloliu/celldag/endian"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/section"
)

// Descriptor bits of d1 beyond the ref count.
const (
	d1RefsMask   = 0x07
	d1ExoticBit  = 0x08
	d1HashesBit  = 0x10
	d1LevelShift = 5
)

type bocRecord struct {
	d1   byte
	bits bitstring.Bits
	refs [MaxRefs]int
}

// Deserialize decodes a bag of cells and returns its roots in declaration
// order.
//
// Cells are rebuilt from the last index to the first, so every ref is
// resolved before it is needed. Cell 0 must be one of the roots. Any size,
// index or checksum inconsistency returns an error wrapping ErrMalformedBOC.
func Deserialize(data []byte) ([]*Cell, error) {
	h, pos, err := section.ParseBOCHeader(data)
	if err != nil {
		return nil, err
	}
	if h.AbsentCount != 0 {
		return nil, fmt.Errorf("%w: %d absent cells", errs.ErrMalformedBOC, h.AbsentCount)
	}
	if h.TotalCellsSize > uint64(len(data)) {
		return nil, fmt.Errorf("%w: %d bytes of cells in a %d-byte bag", errs.ErrMalformedBOC, h.TotalCellsSize, len(data))
	}
	if size := h.Size(); size != uint64(len(data)) {
		return nil, fmt.Errorf("%w: header describes %d bytes, have %d", errs.ErrMalformedBOC, size, len(data))
	}

	if h.HasCRC32C() {
		body := data[:len(data)-section.CRC32CSize]
		want := checksum.CRC32CBytes(body)
		if [4]byte(data[len(body):]) != want {
			return nil, fmt.Errorf("%w: trailer %x, computed %x", errs.ErrChecksumMismatch, data[len(body):], want)
		}
	}

	index := data[pos : pos+h.IndexLen()]
	pos += h.IndexLen()
	cellData := data[pos : pos+int(h.TotalCellsSize)] //nolint:gosec

	records, err := parseRecords(&h, cellData, index)
	if err != nil {
		return nil, err
	}

	cells := make([]*Cell, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := &records[i]
		n := int(rec.d1 & d1RefsMask)
		refs := make([]*Cell, n)
		for j := range n {
			refs[j] = cells[rec.refs[j]]
		}

		c, err := newCell(rec.bits, refs, rec.d1&d1ExoticBit != 0)
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", errs.ErrMalformedBOC, i, err)
		}
		if c.levelMask != rec.d1>>d1LevelShift {
			return nil, fmt.Errorf("%w: cell %d level mask %d, content implies %d", errs.ErrMalformedBOC, i, rec.d1>>d1LevelShift, c.levelMask)
		}
		cells[i] = c
	}

	roots := make([]*Cell, len(h.Roots))
	for i, idx := range h.Roots {
		roots[i] = cells[idx]
	}

	return roots, nil
}

// parseRecords splits the cell area into records and checks them against
// the header and, when present, the index table.
func parseRecords(h *section.BOCHeader, data []byte, index []byte) ([]bocRecord, error) {
	refSize := h.RefSize()
	records := make([]bocRecord, h.CellCount)

	pos := 0
	for i := range records {
		if len(data)-pos < 2 {
			return nil, fmt.Errorf("%w: cell %d truncated", errs.ErrMalformedBOC, i)
		}
		d1, d2 := data[pos], data[pos+1]
		pos += 2

		refNum := int(d1 & d1RefsMask)
		if refNum > MaxRefs {
			return nil, fmt.Errorf("%w: cell %d has %d refs", errs.ErrMalformedBOC, i, refNum)
		}
		if d1&d1HashesBit != 0 {
			// stored hashes and depths are recomputed, skip them
			pos += (bits.OnesCount8(d1>>d1LevelShift) + 1) * (HashSize + 2)
		}

		dataLen := (int(d2) + 1) / 2
		need := dataLen + refNum*refSize
		if pos > len(data) || len(data)-pos < need {
			return nil, fmt.Errorf("%w: cell %d truncated", errs.ErrMalformedBOC, i)
		}

		payload := data[pos : pos+dataLen]
		pos += dataLen

		var (
			b   bitstring.Bits
			err error
		)
		if d2%2 == 1 {
			b, err = bitstring.FromTagged(payload)
		} else {
			b = bitstring.FromBytes(payload)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %w", errs.ErrMalformedBOC, i, err)
		}
		if b.Len() > MaxBits {
			return nil, fmt.Errorf("%w: cell %d has %d bits", errs.ErrMalformedBOC, i, b.Len())
		}

		rec := bocRecord{d1: d1, bits: b}
		for j := range refNum {
			ref := int(endian.UintN(data[pos:], refSize)) //nolint:gosec
			pos += refSize
			if ref <= i || ref >= h.CellCount {
				return nil, fmt.Errorf("%w: cell %d ref %d points at %d", errs.ErrInvalidRefIndex, i, j, ref)
			}
			rec.refs[j] = ref
		}
		records[i] = rec

		if len(index) > 0 {
			entry := endian.UintN(index[i*h.OffsetSize:], h.OffsetSize)
			if h.Flag.HasCacheBits() {
				entry >>= 1
			}
			if entry != uint64(pos) { //nolint:gosec
				return nil, fmt.Errorf("%w: index entry %d is %d, cell ends at %d", errs.ErrMalformedBOC, i, entry, pos)
			}
		}
	}

	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after cells", errs.ErrMalformedBOC, len(data)-pos)
	}

	return records, nil
}

// FromBOC decodes a bag of cells holding exactly one root.
func FromBOC(data []byte) (*Cell, error) {
	roots, err := Deserialize(data)
	if err != nil {
		return nil, err
	}
	if len(roots) != 1 {
		return nil, fmt.Errorf("%w: expected one root, have %d", errs.ErrMalformedBOC, len(roots))
	}

	return roots[0], nil
}

// FromBOCMultiRoot decodes a bag of cells and returns all of its roots.
func FromBOCMultiRoot(data []byte) ([]*Cell, error) {
	return Deserialize(data)
}
