// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cipher

// Pack16To8 splits every word into its high and low byte. An odd
// trailing word still contributes exactly two bytes, so the output
// length is always 2*len(words).
func Pack16To8(words []uint16) []byte {
	packed := make([]byte, 0, 2*len(words))
	for _, word := range words {
		packed = append(packed, byte(word/256), byte(word%256))
	}
	return packed
}

// Pack8To16 joins consecutive byte pairs into big-endian words. A
// trailing single byte becomes one word whose value is that byte
// (zero-extended), not the high byte of a zero-padded pair.
//
// This is not the inverse of Pack16To8 for odd lengths: the bytes
// {0x01,0x02,0x03} unpack to {0x0102,0x0003}, which pack back to
// {0x01,0x02,0x00,0x03}. Persisted containers rely on this.
func Pack8To16(data []byte) []uint16 {
	words := make([]uint16, 0, (len(data)+1)/2)
	pairs := len(data) / 2
	for i := 0; i < pairs; i++ {
		words = append(words, 256*uint16(data[2*i])+uint16(data[2*i+1]))
	}
	if len(data)%2 == 1 {
		words = append(words, uint16(data[len(data)-1]))
	}
	return words
}
