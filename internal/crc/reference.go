package crc

// Byte-serial reference implementations. The word folds must agree with
// these bit for bit over the same byte stream; the references are only
// consulted by tests, the harness scoreboard, and the digest cross-check.

var (
	tableReversed [256]uint32
	tableForward  [256]uint32
)

func init() {
	for i := 0; i < 256; i++ {
		c := uint32(i)
		for j := 0; j < 8; j++ {
			if c&1 != 0 {
				c = (c >> 1) ^ PolyReversed
			} else {
				c >>= 1
			}
		}
		tableReversed[i] = c

		f := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if f&0x80000000 != 0 {
				f = (f << 1) ^ PolyForward
			} else {
				f <<= 1
			}
		}
		tableForward[i] = f
	}
}

// UpdateLSB advances a reversed-form (reflected) CRC over data, one byte at
// a time, least significant bit first. Seeded with Seed and finalized with
// Finalize it matches the standard Ethernet CRC32.
func UpdateLSB(acc uint32, data []byte) uint32 {
	for _, b := range data {
		acc = (acc >> 8) ^ tableReversed[byte(acc)^b]
	}
	return acc
}

// UpdateMSB advances a forward-form (non-reflected) CRC over data, one byte
// at a time, most significant bit first.
func UpdateMSB(acc uint32, data []byte) uint32 {
	for _, b := range data {
		acc = (acc << 8) ^ tableForward[byte(acc>>24)^b]
	}
	return acc
}

// Checksum computes the finalized standard Ethernet CRC32 over data.
func Checksum(data []byte) uint32 {
	return Finalize(UpdateLSB(Seed, data))
}

// Verify reports whether data checksums to expected.
func Verify(data []byte, expected uint32) bool {
	return Checksum(data) == expected
}
