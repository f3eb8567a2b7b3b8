// Package checksum provides the two checksums used around cells.
//
// CRC16 is the CCITT/XMODEM variant (polynomial 0x1021, initial value 0,
// no reflection, no final XOR) used by user-friendly address checksums.
// CRC32C is the Castagnoli variant (reflected polynomial 0x82F63B78,
// initial value and final XOR 0xFFFFFFFF) used for bag-of-cells integrity
// and by the network transport layer.
//
// Reference vectors for the ASCII input "123456789":
//
//	CRC16("123456789")  == 0x31C3
//	CRC32C("123456789") == 0xE3069283
package checksum
