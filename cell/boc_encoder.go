package cell

import (
	"bytes"
	"fmt"

	"github.com/arloliu/celldag/checksum"
	"github.com/arloliu/celldag/endian"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/internal/collision"
	"github.com/arloliu/celldag/internal/options"
	"github.com/arloliu/celldag/internal/pool"
	"github.com/arloliu/celldag/section"
)

// maxCellWeight bounds the subtree weight a cell may carry before its
// subtree is moved towards the end of the bag.
const maxCellWeight = 64

// newIdx states used while ordering.
const (
	idxUnvisited  = -1
	idxPrevisited = -2
	idxVisited    = -3
)

type bocCell struct {
	cell   *Cell
	refs   [MaxRefs]int
	refNum int
	weight int
	shared bool // reached more than once while importing
	newIdx int
}

// special cells have a subtree too heavy to stay next to their parent.
func (c *bocCell) special() bool {
	return c.weight == 0
}

// bocEncoder holds the state of one Serialize call.
type bocEncoder struct {
	cells   []bocCell
	tracker *collision.Tracker
	order   []int // cells indices in allocation order, capacity len(cells)
}

// Serialize encodes the DAG reachable from roots as a bag of cells.
//
// Identical subtrees are stored once. Cells are numbered so that every ref
// points to a higher index, with the layout the network's reference
// serializer produces, so equal inputs give byte-identical output.
//
// Without options the bag has a crc32c trailer and no index.
func Serialize(roots []*Cell, opts ...SerializeOption) ([]byte, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no roots", errs.ErrInvalidCell)
	}

	cfg := defaultSerializeConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	enc := &bocEncoder{tracker: collision.NewTracker()}
	rootIdx := make([]int, len(roots))
	for i, root := range roots {
		if root == nil {
			return nil, fmt.Errorf("%w: root %d is nil", errs.ErrInvalidCell, i)
		}
		rootIdx[i] = enc.importCell(root)
	}

	order, release := pool.GetIntSlice(len(enc.cells))
	defer release()
	enc.order = order[:0]

	enc.reorder(rootIdx)

	return enc.write(rootIdx, cfg)
}

// ToBOC serializes c as a single-root bag with a crc32c trailer.
func (c *Cell) ToBOC() ([]byte, error) {
	return Serialize([]*Cell{c})
}

// ToBOCWithOptions serializes c as a single-root bag.
func (c *Cell) ToBOCWithOptions(opts ...SerializeOption) ([]byte, error) {
	return Serialize([]*Cell{c}, opts...)
}

// importCell adds c and its subtree in post-order and returns its index.
func (e *bocEncoder) importCell(c *Cell) int {
	if idx, ok := e.tracker.Lookup(c.Hash()); ok {
		e.cells[idx].shared = true
		return idx
	}

	info := bocCell{cell: c, refNum: len(c.refs), weight: 1, newIdx: idxUnvisited}
	for i, ref := range c.refs {
		child := e.importCell(ref)
		info.refs[i] = child
		info.weight += e.cells[child].weight
	}
	info.weight = min(info.weight, 0xFF)

	idx, _ := e.tracker.Track(c.Hash())
	e.cells = append(e.cells, info)

	return idx
}

// reorder caps subtree weights, flags heavy cells and assigns the final
// allocation order.
func (e *bocEncoder) reorder(roots []int) {
	for i := len(e.cells) - 1; i >= 0; i-- {
		c := &e.cells[i]
		n := c.refNum
		heavy, sum, light := n, maxCellWeight-1, 0
		for j := range n {
			child := &e.cells[c.refs[j]]
			if child.weight <= (maxCellWeight-1+j)/n {
				sum -= child.weight
				heavy--
				light |= 1 << j
			}
		}
		if heavy == 0 {
			continue
		}
		for j := range n {
			if light&(1<<j) != 0 {
				continue
			}
			child := &e.cells[c.refs[j]]
			limit := sum / heavy
			sum++
			child.weight = min(child.weight, limit)
		}
	}

	for i := range e.cells {
		c := &e.cells[i]
		sum := 1
		for j := range c.refNum {
			sum += e.cells[c.refs[j]].weight
		}
		if sum <= c.weight {
			c.weight = sum
		} else {
			c.weight = 0
		}
	}

	for _, root := range roots {
		e.revisit(root, 0)
		e.revisit(root, 1)
	}
	for i, root := range roots {
		roots[i] = e.revisit(root, 2)
	}
}

// revisit walks the DAG in three passes selected by force: 0 previsits,
// 1 visits (children first, last ref to first), 2 allocates an index.
func (e *bocEncoder) revisit(idx int, force int) int {
	c := &e.cells[idx]
	if c.newIdx >= 0 {
		return c.newIdx
	}

	switch {
	case force == 0:
		if c.newIdx != idxUnvisited {
			return c.newIdx
		}
		for j := c.refNum - 1; j >= 0; j-- {
			child := c.refs[j]
			if e.cells[child].special() {
				e.revisit(child, 1)
			} else {
				e.revisit(child, 0)
			}
		}
		c.newIdx = idxPrevisited

		return c.newIdx
	case force > 1:
		c.newIdx = len(e.order)
		e.order = append(e.order, idx)

		return c.newIdx
	}

	if c.newIdx == idxVisited {
		return c.newIdx
	}
	if c.special() {
		e.revisit(idx, 0)
	}
	for j := c.refNum - 1; j >= 0; j-- {
		e.revisit(c.refs[j], 1)
	}
	for j := c.refNum - 1; j >= 0; j-- {
		c.refs[j] = e.revisit(c.refs[j], 2)
	}
	c.newIdx = idxVisited

	return c.newIdx
}

// write lays out header, index, records and trailer. Allocation order is
// reversed so roots come first and refs always point forward.
func (e *bocEncoder) write(roots []int, cfg *serializeConfig) ([]byte, error) {
	count := len(e.order)
	refSize := section.RefSizeFor(count)
	if refSize > section.MaxRefSize {
		return nil, fmt.Errorf("%w: %d cells", errs.ErrCapacity, count)
	}
	outIdx := func(allocIdx int) int { return count - 1 - allocIdx }

	var total uint64
	for _, idx := range e.order {
		c := &e.cells[idx]
		total += uint64(2 + c.cell.bits.ByteLen() + c.refNum*refSize) //nolint:gosec
	}

	rootOut := make([]int, len(roots))
	for i, r := range roots {
		rootOut[i] = outIdx(r)
	}

	cacheBits := cfg.cacheBits && cfg.index
	header := section.NewBOCHeader(count, total, rootOut)
	if cacheBits {
		header.OffsetSize = section.OffsetSizeFor(total << 1)
	}
	header.Flag.WithIndex(cfg.index)
	header.Flag.WithCRC32C(cfg.crc32c)
	header.Flag.WithCacheBits(cacheBits)

	buf := pool.GetBOCBuffer()
	defer pool.PutBOCBuffer(buf)
	buf.Grow(int(header.Size())) //nolint:gosec

	buf.B = header.AppendTo(buf.B)

	if cfg.index {
		var offset uint64
		for i := count - 1; i >= 0; i-- {
			c := &e.cells[e.order[i]]
			offset += uint64(2 + c.cell.bits.ByteLen() + c.refNum*refSize) //nolint:gosec
			entry := offset
			if cacheBits {
				entry <<= 1
				if c.shared {
					entry |= 1
				}
			}
			buf.B = endian.AppendUintN(buf.B, entry, header.OffsetSize)
		}
	}

	for i := count - 1; i >= 0; i-- {
		c := &e.cells[e.order[i]]
		d := c.cell.Descriptors()
		buf.B = append(buf.B, d[0], d[1])
		buf.B = append(buf.B, c.cell.bits.Tagged()...)
		for j := range c.refNum {
			buf.B = endian.AppendUintN(buf.B, uint64(outIdx(c.refs[j])), refSize) //nolint:gosec
		}
	}

	if cfg.crc32c {
		sum := checksum.CRC32CBytes(buf.B)
		buf.B = append(buf.B, sum[:]...)
	}

	return bytes.Clone(buf.B), nil
}
