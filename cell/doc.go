// Package cell implements cells, the building block of the network's data
// structures, together with their bag-of-cells serialization and the
// dictionary (Hashmap) encoding layered on top of them.
//
// # Cells
//
// A Cell holds up to 1023 bits and up to four references to other cells.
// Cells are immutable and form a DAG; the same cell may be referenced from
// many parents. Every cell has a representation hash:
//
//	SHA256(d1 || d2 || data || depth(ref_0..n) || hash(ref_0..n))
//
// where d1 = refs + 8*exotic + 32*level_mask, d2 = floor(bits/8) +
// ceil(bits/8), data is the payload with a completion tag when it does not
// end on a byte boundary, and each depth is a 16-bit big-endian integer.
// Hash and depth are computed once, on first use.
//
// # Building and Parsing
//
//	b := cell.NewBuilder()
//	_ = b.StoreUint(0x0F8A7EA5, 32)
//	_ = b.StoreCoins(1_000_000_000)
//	_ = b.StoreRef(payload)
//	c, err := b.Build()
//
//	s := c.BeginParse()
//	op, _ := s.LoadUint(32)
//	amount, _ := s.LoadCoins()
//	ref, _ := s.LoadRef()
//
// Builder methods check bit and ref capacity before writing; a failed call
// leaves the builder unchanged. Slice loads behave the same way.
//
// # Bag of Cells
//
// Serialize writes every cell reachable from the roots once, numbering them
// so that refs always point to higher indices, optionally followed by an
// offset index and a crc32c trailer:
//
//	boc, err := cell.Serialize([]*cell.Cell{root}, cell.WithIndex(true))
//	roots, err := cell.Deserialize(boc)
//
// The numbering follows the network's reference serializer, so output is
// byte-identical to what other implementations produce for the same DAG.
//
// # Dictionaries
//
// Dictionary maps fixed-width bit keys to cells. Its encoding is a binary
// Patricia trie whose edges carry compressed labels; the shape depends only
// on the key set.
//
//	d := cell.NewDict(32)
//	_ = d.SetUintKey(7, value)
//	_ = b.StoreDict(d) // HashmapE: presence bit + root ref
//
// # Thread Safety
//
// Cells are safe for concurrent use. Builder, Slice and Dictionary are not.
package cell
