// Package crc implements the CRC32 arithmetic used by the streaming engine.
//
// This package provides:
//   - Word folds: bit-parallel emulation of the bit-serial LFSR recurrence,
//     folding a full 32-bit word into the accumulator per call
//   - Reference implementations: table-driven byte-serial CRC32 in both bit
//     orders, used to cross-check the word folds
//   - Polynomial constants and finalization helpers
package crc

import "math/bits"

// IEEE 802.3 generator polynomial in its two representations.
// The forward form is processed MSB-first, the reversed form LSB-first.
// Mixing a representation with the wrong bit order produces garbage.
const (
	PolyForward  uint32 = 0x04C11DB7
	PolyReversed uint32 = 0xEDB88320
)

// Seed is the accumulator's initial value at the start of a frame,
// per the Ethernet standard.
const Seed uint32 = 0xFFFFFFFF

// FoldWordMSB folds one 32-bit word into the accumulator, most significant
// bit first, using the forward polynomial. It emulates 32 steps of the
// bit-serial LFSR: at each step the register's top bit is compared with the
// next input bit, the register shifts left, and the polynomial is XORed in
// when the bits differ.
func FoldWordMSB(acc, word uint32) uint32 {
	for i := 0; i < 32; i++ {
		inBit := (word >> (31 - i)) & 1
		topBit := acc >> 31
		acc <<= 1
		if topBit != inBit {
			acc ^= PolyForward
		}
	}
	return acc
}

// FoldWordLSB folds one 32-bit word into the accumulator, least significant
// bit first, using the reversed polynomial. This is the mirror image of
// FoldWordMSB: the register's bottom bit is compared with the next input
// bit, the register shifts right, and the reversed polynomial is XORed in
// when the bits differ.
func FoldWordLSB(acc, word uint32) uint32 {
	for i := 0; i < 32; i++ {
		inBit := (word >> i) & 1
		if acc&1 != inBit {
			acc = (acc >> 1) ^ PolyReversed
		} else {
			acc >>= 1
		}
	}
	return acc
}

// Finalize applies the standard finalization (bitwise complement) to the
// accumulator, producing the published checksum value.
func Finalize(acc uint32) uint32 {
	return ^acc
}

// Reverse32 returns the bit-reversal of x. It bridges the two polynomial
// representations: Reverse32(FoldWordMSB(a, w)) equals
// FoldWordLSB(Reverse32(a), Reverse32(w)).
func Reverse32(x uint32) uint32 {
	return bits.Reverse32(x)
}
