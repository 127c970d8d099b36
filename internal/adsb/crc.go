package adsb

// ADS-B CRC-24 polynomial constant (Mode S standard)
const MODES_GENERATOR_POLY = 0xfff409

// Pre-computed CRC table for performance optimization
var crcTable []uint32

// init initializes the pre-computed CRC table
func init() {
	crcTable = make([]uint32, 256)
	for i := 0; i < 256; i++ {
		c := uint32(i) << 16
		for j := 0; j < 8; j++ {
			if c&0x800000 != 0 {
				c = (c << 1) ^ MODES_GENERATOR_POLY
			} else {
				c = c << 1
			}
		}
		crcTable[i] = c & 0x00ffffff
	}
}

// CalculateCRC calculates the Mode S CRC-24 remainder of data
func CalculateCRC(data []byte) uint32 {
	var rem uint32

	for _, b := range data {
		rem = (rem << 8) ^ crcTable[uint32(b)^((rem&0xff0000)>>16)]
		rem &= 0xffffff
	}

	return rem
}

// parityField returns the trailing 24-bit AP/PI field of a message
func parityField(data []byte) uint32 {
	n := len(data)
	return uint32(data[n-3])<<16 | uint32(data[n-2])<<8 | uint32(data[n-1])
}

// RecoverAddress recovers the transponder address overlaid on the parity
// field of a surveillance reply (address/parity encoding).
func RecoverAddress(data []byte) (uint32, bool) {
	if len(data) < ShortMessageBytes {
		return 0, false
	}
	n := len(data)
	return CalculateCRC(data[:n-3]) ^ parityField(data), true
}

// ParityValid reports whether an extended squitter (plain PI field) has a zero syndrome
func ParityValid(data []byte) bool {
	if len(data) < ShortMessageBytes {
		return false
	}
	n := len(data)
	return CalculateCRC(data[:n-3]) == parityField(data)
}
