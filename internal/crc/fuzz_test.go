package crc

import (
	"encoding/binary"
	"hash/crc32"
	"testing"
)

// FuzzFoldWordLSB checks that the bit-parallel word fold never diverges from
// the byte-serial reference or the standard library over arbitrary words.
func FuzzFoldWordLSB(f *testing.F) {
	f.Add(uint32(0x00000000), uint32(0x00000000))
	f.Add(uint32(0xFFFFFFFF), uint32(0x12345678))
	f.Add(uint32(0xDEADBEEF), uint32(0xCAFEBABE))

	f.Fuzz(func(t *testing.T, acc, word uint32) {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], word)

		want := UpdateLSB(acc, buf[:])
		got := FoldWordLSB(acc, word)
		if got != want {
			t.Fatalf("FoldWordLSB(%08x, %08x) = %08x, reference = %08x", acc, word, got, want)
		}

		// hash/crc32 only exposes the seeded/finalized form; pin it for the
		// standard seed.
		if acc == Seed {
			std := crc32.ChecksumIEEE(buf[:])
			if Finalize(got) != std {
				t.Fatalf("finalized fold %08x != hash/crc32 %08x", Finalize(got), std)
			}
		}
	})
}

// FuzzFoldFormsReversal checks the bit-reversal bridge between the two
// polynomial representations over arbitrary inputs.
func FuzzFoldFormsReversal(f *testing.F) {
	f.Add(uint32(0xFFFFFFFF), uint32(0x12345678))
	f.Add(uint32(0x00000000), uint32(0xFFFFFFFF))

	f.Fuzz(func(t *testing.T, acc, word uint32) {
		msb := FoldWordMSB(acc, word)
		lsb := FoldWordLSB(Reverse32(acc), Reverse32(word))
		if Reverse32(msb) != lsb {
			t.Fatalf("reversal identity broken: acc=%08x word=%08x", acc, word)
		}
	})
}
