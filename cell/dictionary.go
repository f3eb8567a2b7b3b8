package cell

import (
	"fmt"
	"iter"
	"math/big"
	"slices"
	"strings"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/errs"
)

type dictEntry struct {
	id    string // key bytes, used for ordering and lookup
	key   bitstring.Bits
	value *Cell
}

// Dictionary is a map from fixed-width bit keys to cells, encoded as a
// Patricia trie of cells (Hashmap / HashmapE).
//
// The encoding depends only on the key/value set, never on insertion order.
//
// Note: Dictionary is NOT thread-safe.
type Dictionary struct {
	keyBits uint
	entries map[string]dictEntry
}

// NewDict creates an empty dictionary with keyBits-wide keys.
func NewDict(keyBits uint) *Dictionary {
	return &Dictionary{
		keyBits: keyBits,
		entries: make(map[string]dictEntry),
	}
}

// KeyBits returns the key width.
func (d *Dictionary) KeyBits() uint {
	return d.keyBits
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// IsEmpty reports whether the dictionary has no entries.
func (d *Dictionary) IsEmpty() bool {
	return len(d.entries) == 0
}

func (d *Dictionary) checkKey(key bitstring.Bits) error {
	if d.keyBits == 0 || d.keyBits > MaxBits {
		return fmt.Errorf("%w: %d bits", errs.ErrInvalidKeyWidth, d.keyBits)
	}
	if key.Len() != d.keyBits {
		return fmt.Errorf("%w: key of %d bits, want %d", errs.ErrInvalidKeyWidth, key.Len(), d.keyBits)
	}

	return nil
}

// Set inserts or replaces the value stored under key.
func (d *Dictionary) Set(key bitstring.Bits, value *Cell) error {
	if err := d.checkKey(key); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: nil value", errs.ErrInvalidDict)
	}

	id := string(key.Bytes())
	d.entries[id] = dictEntry{id: id, key: key, value: value}

	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (d *Dictionary) Get(key bitstring.Bits) (*Cell, error) {
	if err := d.checkKey(key); err != nil {
		return nil, err
	}

	e, ok := d.entries[string(key.Bytes())]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrKeyNotFound, key)
	}

	return e.value, nil
}

// Delete removes key and reports whether it was present.
func (d *Dictionary) Delete(key bitstring.Bits) (bool, error) {
	if err := d.checkKey(key); err != nil {
		return false, err
	}

	id := string(key.Bytes())
	_, ok := d.entries[id]
	delete(d.entries, id)

	return ok, nil
}

// SetUintKey is Set with an unsigned integer key.
func (d *Dictionary) SetUintKey(key uint64, value *Cell) error {
	k, err := UintKey(key, d.keyBits)
	if err != nil {
		return err
	}

	return d.Set(k, value)
}

// GetUintKey is Get with an unsigned integer key.
func (d *Dictionary) GetUintKey(key uint64) (*Cell, error) {
	k, err := UintKey(key, d.keyBits)
	if err != nil {
		return nil, err
	}

	return d.Get(k)
}

// SetIntKey is Set with a signed integer key.
func (d *Dictionary) SetIntKey(key int64, value *Cell) error {
	k, err := IntKey(key, d.keyBits)
	if err != nil {
		return err
	}

	return d.Set(k, value)
}

// GetIntKey is Get with a signed integer key.
func (d *Dictionary) GetIntKey(key int64) (*Cell, error) {
	k, err := IntKey(key, d.keyBits)
	if err != nil {
		return nil, err
	}

	return d.Get(k)
}

// UintKey encodes v as a keyBits-wide unsigned key.
func UintKey(v uint64, keyBits uint) (bitstring.Bits, error) {
	b := bitstring.NewBuilderCap(keyBits)
	if keyBits <= 64 {
		if err := b.StoreUint(v, keyBits); err != nil {
			return bitstring.Bits{}, err
		}
	} else if err := b.StoreBigUint(new(big.Int).SetUint64(v), keyBits); err != nil {
		return bitstring.Bits{}, err
	}

	return b.Build(), nil
}

// IntKey encodes v as a keyBits-wide two's complement key.
func IntKey(v int64, keyBits uint) (bitstring.Bits, error) {
	b := bitstring.NewBuilderCap(keyBits)
	if keyBits <= 64 {
		if err := b.StoreInt(v, keyBits); err != nil {
			return bitstring.Bits{}, err
		}
	} else if err := b.StoreBigInt(big.NewInt(v), keyBits); err != nil {
		return bitstring.Bits{}, err
	}

	return b.Build(), nil
}

// sorted returns the entries in ascending key order.
func (d *Dictionary) sorted() []dictEntry {
	out := make([]dictEntry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b dictEntry) int {
		return strings.Compare(a.id, b.id)
	})

	return out
}

// All iterates over the entries in ascending unsigned key order.
func (d *Dictionary) All() iter.Seq2[bitstring.Bits, *Cell] {
	entries := d.sorted()

	return func(yield func(bitstring.Bits, *Cell) bool) {
		for _, e := range entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Keys returns the keys in ascending unsigned order.
func (d *Dictionary) Keys() []bitstring.Bits {
	entries := d.sorted()
	keys := make([]bitstring.Bits, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}

	return keys
}

// ToCell encodes the dictionary as a Hashmap and returns its root, or nil
// for an empty dictionary.
func (d *Dictionary) ToCell() (*Cell, error) {
	if d.IsEmpty() {
		return nil, nil
	}

	return buildNode(d.sorted(), 0, d.keyBits)
}

// buildNode encodes entries, whose keys share their first offset bits, as a
// node with at most m remaining key bits.
func buildNode(entries []dictEntry, offset, m uint) (*Cell, error) {
	first, last := entries[0].key, entries[len(entries)-1].key

	prefix := m
	if len(entries) > 1 {
		prefix = first.CommonPrefixLen(last) - offset
	}
	label, err := first.Sub(offset, prefix)
	if err != nil {
		return nil, err
	}

	b := NewBuilder()
	if err := storeLabel(b, label, m); err != nil {
		return nil, err
	}

	if len(entries) == 1 {
		if err := b.StoreCell(entries[0].value); err != nil {
			return nil, fmt.Errorf("value of key %s: %w", first, err)
		}

		return b.Build()
	}

	split := offset + prefix
	pivot, _ := slices.BinarySearchFunc(entries, true, func(e dictEntry, _ bool) int {
		if e.key.Bit(split) {
			return 0
		}

		return -1
	})

	for _, branch := range [][]dictEntry{entries[:pivot], entries[pivot:]} {
		child, err := buildNode(branch, split+1, m-prefix-1)
		if err != nil {
			return nil, err
		}
		if err := b.StoreRef(child); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// DictFromCell decodes a Hashmap rooted at root. A nil root yields an empty
// dictionary.
func DictFromCell(root *Cell, keyBits uint) (*Dictionary, error) {
	d := NewDict(keyBits)
	if keyBits == 0 || keyBits > MaxBits {
		return nil, fmt.Errorf("%w: %d bits", errs.ErrInvalidKeyWidth, keyBits)
	}
	if root == nil {
		return d, nil
	}

	if err := d.loadNode(root, bitstring.Bits{}, keyBits); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadDict decodes a HashmapE: a presence bit followed by an optional root ref.
func LoadDict(s *Slice, keyBits uint) (*Dictionary, error) {
	return s.LoadDict(keyBits)
}

func (d *Dictionary) loadNode(c *Cell, prefix bitstring.Bits, m uint) error {
	if c.IsExotic() {
		return fmt.Errorf("%w: %s cell inside dictionary", errs.ErrInvalidDict, c.Type())
	}

	s := c.BeginParse()
	label, err := loadLabel(s, m)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidDict, err)
	}

	path := bitstring.NewBuilderCap(d.keyBits)
	_ = path.StoreBits(prefix)
	_ = path.StoreBits(label)

	if label.Len() == m {
		value, err := s.ToCell()
		if err != nil {
			return err
		}
		key := path.Build()
		d.entries[string(key.Bytes())] = dictEntry{id: string(key.Bytes()), key: key, value: value}

		return nil
	}

	if s.RemainingBits() != 0 || s.RemainingRefs() != 2 {
		return fmt.Errorf("%w: fork with %d extra bits and %d refs", errs.ErrInvalidDict, s.RemainingBits(), s.RemainingRefs())
	}

	next := m - label.Len() - 1
	for bit, ref := range s.refs[s.refPos:] {
		branch := bitstring.NewBuilderCap(d.keyBits)
		_ = branch.StoreBuilder(path)
		_ = branch.StoreBit(bit == 1)
		if err := d.loadNode(ref, branch.Build(), next); err != nil {
			return err
		}
	}

	return nil
}
