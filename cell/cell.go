package cell

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/minio/sha256-simd"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
	"github.com/arloliu/celldag/format"
)

const (
	MaxBits  = bitstring.MaxBits // payload bits per cell
	MaxRefs  = 4                 // child references per cell
	HashSize = 32                // representation hash size in bytes
	MaxLevel = 3                 // highest level a level mask can express
)

// Cell is an immutable node of a cell DAG: up to 1023 bits and up to four
// references to other cells.
//
// Hash and depth are computed on first use and cached. A Cell is safe for
// concurrent readers.
type Cell struct {
	bits      bitstring.Bits
	refs      []*Cell
	typ       format.CellType
	levelMask uint8

	once  sync.Once
	hash  [HashSize]byte
	depth uint16
}

var emptyCell = &Cell{typ: format.Ordinary}

// EmptyCell returns the ordinary cell with no bits and no refs.
func EmptyCell() *Cell {
	return emptyCell
}

// newCell validates capacity and, for exotic cells, the payload layout of
// the cell type.
func newCell(data bitstring.Bits, refs []*Cell, exotic bool) (*Cell, error) {
	if data.Len() > MaxBits {
		return nil, fmt.Errorf("%w: %d bits", errs.ErrBitsOverflow, data.Len())
	}
	if len(refs) > MaxRefs {
		return nil, fmt.Errorf("%w: %d refs", errs.ErrRefsOverflow, len(refs))
	}
	for i, ref := range refs {
		if ref == nil {
			return nil, fmt.Errorf("%w: ref %d is nil", errs.ErrInvalidCell, i)
		}
	}

	c := &Cell{bits: data, refs: refs, typ: format.Ordinary}
	if !exotic {
		for _, ref := range refs {
			c.levelMask |= ref.levelMask
		}

		return c, nil
	}

	if err := c.initExotic(); err != nil {
		return nil, err
	}

	return c, nil
}

// exotic payload sizes in bits
const (
	prunedEntryBits   = HashSize*8 + 16
	libraryBits       = 8 + HashSize*8
	merkleProofBits   = 8 + HashSize*8 + 16
	merkleUpdateBits  = 8 + 2*(HashSize*8+16)
	exoticMinimumBits = 8
)

func (c *Cell) initExotic() error {
	if c.bits.Len() < exoticMinimumBits {
		return fmt.Errorf("%w: exotic cell with %d bits has no type byte", errs.ErrInvalidCell, c.bits.Len())
	}

	s := c.bits.Slice()
	tag, _ := s.LoadUint(8)
	c.typ = format.CellType(tag)

	switch c.typ {
	case format.PrunedBranch:
		mask, err := s.LoadUint(8)
		if err != nil {
			return fmt.Errorf("%w: pruned branch without level mask", errs.ErrInvalidCell)
		}
		if mask == 0 || mask > 7 {
			return fmt.Errorf("%w: pruned branch level mask %d", errs.ErrInvalidCell, mask)
		}
		want := 16 + uint(bits.OnesCount8(uint8(mask)))*prunedEntryBits
		if c.bits.Len() != want || len(c.refs) != 0 {
			return fmt.Errorf("%w: pruned branch with %d bits and %d refs", errs.ErrInvalidCell, c.bits.Len(), len(c.refs))
		}
		c.levelMask = uint8(mask)
	case format.Library:
		if c.bits.Len() != libraryBits || len(c.refs) != 0 {
			return fmt.Errorf("%w: library cell with %d bits and %d refs", errs.ErrInvalidCell, c.bits.Len(), len(c.refs))
		}
	case format.MerkleProof:
		if c.bits.Len() != merkleProofBits || len(c.refs) != 1 {
			return fmt.Errorf("%w: merkle proof with %d bits and %d refs", errs.ErrInvalidCell, c.bits.Len(), len(c.refs))
		}
		c.levelMask = c.refs[0].levelMask >> 1
	case format.MerkleUpdate:
		if c.bits.Len() != merkleUpdateBits || len(c.refs) != 2 {
			return fmt.Errorf("%w: merkle update with %d bits and %d refs", errs.ErrInvalidCell, c.bits.Len(), len(c.refs))
		}
		c.levelMask = (c.refs[0].levelMask | c.refs[1].levelMask) >> 1
	default:
		return fmt.Errorf("%w: type byte 0x%02x", errs.ErrUnsupportedCellType, tag)
	}

	return nil
}

// Bits returns the cell payload.
func (c *Cell) Bits() bitstring.Bits {
	return c.bits
}

// BitsLen returns the payload length in bits.
func (c *Cell) BitsLen() uint {
	return c.bits.Len()
}

// RefsNum returns the number of child references.
func (c *Cell) RefsNum() int {
	return len(c.refs)
}

// Ref returns the i-th child.
func (c *Cell) Ref(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, fmt.Errorf("%w: ref %d of %d", errs.ErrRefsUnderflow, i, len(c.refs))
	}

	return c.refs[i], nil
}

// Refs returns a copy of the child list.
func (c *Cell) Refs() []*Cell {
	out := make([]*Cell, len(c.refs))
	copy(out, c.refs)

	return out
}

// Type returns the cell type.
func (c *Cell) Type() format.CellType {
	return c.typ
}

// IsExotic reports whether c is not an ordinary cell.
func (c *Cell) IsExotic() bool {
	return c.typ.IsExotic()
}

// LevelMask returns the level mask carried in the first descriptor byte.
func (c *Cell) LevelMask() uint8 {
	return c.levelMask
}

// Level returns the highest level set in the level mask.
func (c *Cell) Level() int {
	return bits.Len8(c.levelMask)
}

// Descriptors returns d1 and d2.
//
//	d1 = refs + 8*exotic + 32*levelMask
//	d2 = floor(bits/8) + ceil(bits/8)
func (c *Cell) Descriptors() [2]byte {
	d1 := byte(len(c.refs)) + c.levelMask<<5 //nolint:gosec
	if c.IsExotic() {
		d1 += 8
	}
	n := c.bits.Len()

	return [2]byte{d1, byte(n/8 + (n+7)/8)} //nolint:gosec
}

// Depth returns 0 for a leaf, else 1 + the maximum depth of its children.
func (c *Cell) Depth() uint16 {
	c.once.Do(c.compute)
	return c.depth
}

// Hash returns the SHA-256 representation hash.
func (c *Cell) Hash() [HashSize]byte {
	c.once.Do(c.compute)
	return c.hash
}

func (c *Cell) compute() {
	h := sha256.New()
	d := c.Descriptors()
	h.Write(d[:])
	h.Write(c.bits.Tagged())

	var depth [2]byte
	for _, ref := range c.refs {
		rd := ref.Depth()
		c.depth = max(c.depth, rd+1)
		depth[0], depth[1] = byte(rd>>8), byte(rd)
		h.Write(depth[:])
	}
	for _, ref := range c.refs {
		rh := ref.Hash()
		h.Write(rh[:])
	}

	h.Sum(c.hash[:0])
}

// Equal reports whether c and other have the same representation hash.
func (c *Cell) Equal(other *Cell) bool {
	if c == nil || other == nil {
		return c == other
	}

	return c == other || c.Hash() == other.Hash()
}

// BeginParse returns a fresh read cursor over the cell.
func (c *Cell) BeginParse() *Slice {
	return &Slice{bits: c.bits.Slice(), refs: c.refs}
}

// Parse is an alias of BeginParse.
func (c *Cell) Parse() *Slice {
	return c.BeginParse()
}
