package checksum

const crc16Poly = 0x1021

var crc16Table = makeCRC16Table()

func makeCRC16Table() [256]uint16 {
	var table [256]uint16
	for i := range table {
		crc := uint16(i) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ crc16Poly
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}

	return table
}

// CRC16 computes the CRC16/XMODEM checksum of data.
func CRC16(data []byte) uint16 {
	return UpdateCRC16(0, data)
}

// UpdateCRC16 continues a CRC16 computation from a previous value.
func UpdateCRC16(crc uint16, data []byte) uint16 {
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}

	return crc
}

// CRC16Bytes returns the CRC16 of data as a big-endian byte pair, the order
// in which address checksums are appended.
func CRC16Bytes(data []byte) [2]byte {
	crc := CRC16(data)
	return [2]byte{byte(crc >> 8), byte(crc)}
}
