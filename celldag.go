// Package celldag builds, hashes and serializes TON-style cell DAGs.
//
// A cell holds up to 1023 bits and up to 4 references to other cells. Its
// identity is the SHA-256 representation hash over its descriptors, data
// and children, so equal content means an equal hash no matter where the
// cell sits in a graph. Graphs travel as a bag of cells (BoC) where each
// distinct cell is written once.
//
// # Basic Usage
//
// Building and serializing:
//
//	import "github.com/arloliu/celldag"
//
//	b := celldag.NewBuilder()
//	_ = b.StoreUint(0x0F8A7EA5, 32)
//	_ = b.StoreCoins(1_000_000_000)
//	root, _ := b.Build()
//
//	boc, _ := celldag.ToBOC(root)
//	fmt.Printf("%x\n", root.Hash())
//
// Reading back:
//
//	root, err := celldag.FromBOC(boc)
//	s := root.BeginParse()
//	op, _ := s.LoadUint(32)
//
// Dictionaries:
//
//	d := celldag.NewDict(32)
//	_ = d.SetUintKey(7, value)
//	_ = b.StoreDict(d)
//
// # Package Structure
//
// This package wraps the most common calls. Use the cell, bitstring, dict
// and archive packages directly for the full API.
package celldag

import (
	"github.com/arloliu/celldag/archive"
	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/cell"
	"github.com/arloliu/celldag/internal/hash"
)

// NewBuilder returns an empty cell builder.
func NewBuilder() *cell.Builder {
	return cell.NewBuilder()
}

// FromBOC deserializes a bag of cells with exactly one root.
func FromBOC(data []byte) (*cell.Cell, error) {
	return cell.FromBOC(data)
}

// ToBOC serializes root. Without options the bag has a crc32c trailer and
// no index.
//
// Example:
//
//	boc, err := celldag.ToBOC(root, cell.WithIndex(true))
func ToBOC(root *cell.Cell, opts ...cell.SerializeOption) ([]byte, error) {
	return cell.Serialize([]*cell.Cell{root}, opts...)
}

// Parse parses a fift bit literal, "x{...}" or "b{...}".
func Parse(literal string) (bitstring.Bits, error) {
	return bitstring.Parse(literal)
}

// NewDict returns an empty dictionary with keyBits-wide keys.
func NewDict(keyBits uint) *cell.Dictionary {
	return cell.NewDict(keyBits)
}

// Pack serializes root and wraps it in a compressed archive.
func Pack(root *cell.Cell, opts ...archive.Option) ([]byte, error) {
	return archive.PackCells([]*cell.Cell{root}, opts...)
}

// Unpack reverses Pack. The archive must hold a single root.
func Unpack(data []byte) (*cell.Cell, error) {
	boc, err := archive.Unpack(data)
	if err != nil {
		return nil, err
	}

	return cell.FromBOC(boc)
}

// CellID folds a cell's representation hash into a 64-bit fingerprint,
// suitable as a map key or cache shard selector.
//
// Example:
//
//	seen := map[uint64]*cell.Cell{}
//	seen[celldag.CellID(c)] = c
func CellID(c *cell.Cell) uint64 {
	return hash.Fingerprint(c.Hash())
}
