package checksum

import (
	"hash"
	"hash/crc32"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the Castagnoli CRC32 of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// UpdateCRC32C continues a CRC32C computation from a previous value.
func UpdateCRC32C(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, castagnoli, data)
}

// CRC32CBytes returns the CRC32C of data as little-endian bytes, the order
// used by the bag-of-cells trailer.
func CRC32CBytes(data []byte) [4]byte {
	crc := CRC32C(data)
	return [4]byte{byte(crc), byte(crc >> 8), byte(crc >> 16), byte(crc >> 24)}
}

// NewCRC32C returns a streaming CRC32C hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}
