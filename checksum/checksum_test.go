package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var checkInput = []byte("123456789")

func TestCRC16(t *testing.T) {
	require.Equal(t, uint16(0x31C3), CRC16(checkInput))
	require.Equal(t, [2]byte{0x31, 0xC3}, CRC16Bytes(checkInput))
	require.Equal(t, uint16(0), CRC16(nil))

	// streaming must agree with one-shot
	crc := UpdateCRC16(0, checkInput[:4])
	crc = UpdateCRC16(crc, checkInput[4:])
	require.Equal(t, CRC16(checkInput), crc)
}

func TestCRC32C(t *testing.T) {
	require.Equal(t, uint32(0xE3069283), CRC32C(checkInput))
	require.Equal(t, [4]byte{0x83, 0x92, 0x06, 0xE3}, CRC32CBytes(checkInput))
	require.Equal(t, uint32(0), CRC32C(nil))

	crc := UpdateCRC32C(0, checkInput[:3])
	crc = UpdateCRC32C(crc, checkInput[3:])
	require.Equal(t, CRC32C(checkInput), crc)

	h := NewCRC32C()
	_, err := h.Write(checkInput)
	require.NoError(t, err)
	require.Equal(t, uint32(0xE3069283), h.Sum32())
}

func TestCRC16DetectsChange(t *testing.T) {
	data := []byte("EQ-address-payload")
	orig := CRC16(data)
	data[3] ^= 0x01
	require.NotEqual(t, orig, CRC16(data))
}
