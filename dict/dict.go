// Package dict provides typed dictionaries on top of cell.Dictionary.
//
// A Config describes how keys and values map to bits and cells. Most
// callers build one from a key preset and a value preset:
//
//	m := dict.New(dict.Combine(dict.UintKeys(32), dict.CoinsValues()))
//	_ = m.Set(7, big.NewInt(1_000_000_000))
package dict

import (
	"fmt"
	"iter"

	"github.com/arloliu/celldag/bitstring"
	"github.com/arloliu/celldag/cell"
)

// Config specifies the key width and the key/value codecs of a Map.
type Config[K comparable, V any] struct {
	KeyBits     uint
	EncodeKey   func(K) (bitstring.Bits, error)
	DecodeKey   func(bitstring.Bits) (K, error)
	EncodeValue func(V) (*cell.Cell, error)
	DecodeValue func(*cell.Cell) (V, error)
}

// Map is a dictionary with typed keys and values.
//
// Note: Map is NOT thread-safe.
type Map[K comparable, V any] struct {
	cfg  Config[K, V]
	dict *cell.Dictionary
}

// New creates an empty map.
func New[K comparable, V any](cfg Config[K, V]) *Map[K, V] {
	return &Map[K, V]{cfg: cfg, dict: cell.NewDict(cfg.KeyBits)}
}

// FromCell decodes a map from a Hashmap root. A nil root yields an empty map.
func FromCell[K comparable, V any](cfg Config[K, V], root *cell.Cell) (*Map[K, V], error) {
	d, err := cell.DictFromCell(root, cfg.KeyBits)
	if err != nil {
		return nil, err
	}

	return &Map[K, V]{cfg: cfg, dict: d}, nil
}

// Load reads a HashmapE from s.
func Load[K comparable, V any](cfg Config[K, V], s *cell.Slice) (*Map[K, V], error) {
	d, err := s.LoadDict(cfg.KeyBits)
	if err != nil {
		return nil, err
	}

	return &Map[K, V]{cfg: cfg, dict: d}, nil
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.dict.Len()
}

// Set stores value under key.
func (m *Map[K, V]) Set(key K, value V) error {
	k, err := m.cfg.EncodeKey(key)
	if err != nil {
		return fmt.Errorf("encode key %v: %w", key, err)
	}
	v, err := m.cfg.EncodeValue(value)
	if err != nil {
		return fmt.Errorf("encode value of key %v: %w", key, err)
	}

	return m.dict.Set(k, v)
}

// Get returns the value stored under key, or an error wrapping
// errs.ErrKeyNotFound.
func (m *Map[K, V]) Get(key K) (V, error) {
	var zero V

	k, err := m.cfg.EncodeKey(key)
	if err != nil {
		return zero, fmt.Errorf("encode key %v: %w", key, err)
	}
	c, err := m.dict.Get(k)
	if err != nil {
		return zero, err
	}

	return m.cfg.DecodeValue(c)
}

// Delete removes key and reports whether it was present.
func (m *Map[K, V]) Delete(key K) (bool, error) {
	k, err := m.cfg.EncodeKey(key)
	if err != nil {
		return false, fmt.Errorf("encode key %v: %w", key, err)
	}

	return m.dict.Delete(k)
}

// Entry is one decoded key/value pair.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Walk iterates over the entries in ascending key-bit order. An entry that
// fails to decode is yielded as its error with a zero Entry, and iteration
// ends there.
func (m *Map[K, V]) Walk() iter.Seq2[Entry[K, V], error] {
	return func(yield func(Entry[K, V], error) bool) {
		for kb, c := range m.dict.All() {
			k, err := m.cfg.DecodeKey(kb)
			if err != nil {
				yield(Entry[K, V]{}, fmt.Errorf("decode key %s: %w", kb, err))
				return
			}
			v, err := m.cfg.DecodeValue(c)
			if err != nil {
				yield(Entry[K, V]{}, fmt.Errorf("decode value of key %v: %w", k, err))
				return
			}
			if !yield(Entry[K, V]{Key: k, Value: v}, nil) {
				return
			}
		}
	}
}

// All iterates over the entries in ascending key-bit order.
//
// Note: All has no way to report a decode failure, it just stops early.
// Maps read from untrusted cells should go through Walk or Entries.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e, err := range m.Walk() {
			if err != nil || !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Entries decodes every entry in ascending key-bit order.
func (m *Map[K, V]) Entries() ([]K, []V, error) {
	keys := make([]K, 0, m.dict.Len())
	values := make([]V, 0, m.dict.Len())
	for e, err := range m.Walk() {
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, e.Key)
		values = append(values, e.Value)
	}

	return keys, values, nil
}

// Dictionary returns the underlying untyped dictionary.
func (m *Map[K, V]) Dictionary() *cell.Dictionary {
	return m.dict
}

// ToCell encodes the map as a Hashmap root, nil when empty.
func (m *Map[K, V]) ToCell() (*cell.Cell, error) {
	return m.dict.ToCell()
}

// StoreTo writes the map as a HashmapE into b.
func (m *Map[K, V]) StoreTo(b *cell.Builder) error {
	return b.StoreDict(m.dict)
}
