// Package endian provides byte order utilities for the bag-of-cells wire format.
//
// The BoC header, ref indices and index table are big-endian integers whose
// width (1..8 bytes) depends on the size of the bag, while the CRC32C trailer
// is little-endian. EndianEngine covers the fixed-width cases; UintN,
// PutUintN and AppendUintN cover the variable-width ones.
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint32(buf, magic)
//	buf = endian.AppendUintN(buf, uint64(refIdx), refSize)
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
package endian

import (
	"encoding/binary"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// UintN reads an n-byte big-endian unsigned integer from the start of b.
// n must be in [1, 8] and len(b) >= n.
func UintN(b []byte, n int) uint64 {
	_ = b[n-1]

	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(b[i])
	}

	return v
}

// PutUintN writes v as an n-byte big-endian unsigned integer into b.
// Higher bytes of v that do not fit into n bytes are dropped.
func PutUintN(b []byte, v uint64, n int) {
	_ = b[n-1]

	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}

// AppendUintN appends v as an n-byte big-endian unsigned integer to b.
func AppendUintN(b []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		b = append(b, byte(v>>(uint(i)*8)))
	}

	return b
}

// BytesFor returns the minimal number of bytes (at least 1) needed so that
// v < 2^(8*n), the rule the BoC format uses to size ref and offset fields.
func BytesFor(v uint64) int {
	n := 1
	for n < 8 && v >= uint64(1)<<(uint(n)*8) {
		n++
	}

	return n
}
