// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	"bytes"
	"slices"
	"testing"
)

func TestPack16To8(t *testing.T) {
	got := Pack16To8([]uint16{0x0102, 0xFFEE, 0x0003})
	want := []byte{0x01, 0x02, 0xFF, 0xEE, 0x00, 0x03}
	if !bytes.Equal(got, want) {
		t.Errorf("Pack16To8 = %v, want %v", got, want)
	}
	if got := Pack16To8(nil); len(got) != 0 {
		t.Errorf("Pack16To8(nil) = %v, want empty", got)
	}
}

func TestPack8To16(t *testing.T) {
	got := Pack8To16([]byte{0x01, 0x02, 0xFF, 0xEE})
	want := []uint16{0x0102, 0xFFEE}
	if !slices.Equal(got, want) {
		t.Errorf("Pack8To16 = %v, want %v", got, want)
	}
}

func TestPackRoundTripEven(t *testing.T) {
	data := []byte{0, 1, 2, 3, 254, 255, 128, 7}
	if got := Pack16To8(Pack8To16(data)); !bytes.Equal(got, data) {
		t.Errorf("even round trip = %v, want %v", got, data)
	}
	words := []uint16{0, 1, 0xABCD, 0xFFFF, 42}
	if got := Pack8To16(Pack16To8(words)); !slices.Equal(got, words) {
		t.Errorf("word round trip = %v, want %v", got, words)
	}
}

// A trailing single byte becomes a single zero-extended word, and that
// word packs back to two bytes. The asymmetry is kept for compatibility
// with existing container files.
func TestPackOddLengthAsymmetry(t *testing.T) {
	words := Pack8To16([]byte{0x01, 0x02, 0x03})
	if want := []uint16{0x0102, 0x0003}; !slices.Equal(words, want) {
		t.Fatalf("Pack8To16 = %#v, want %#v", words, want)
	}

	back := Pack16To8(words)
	if want := []byte{0x01, 0x02, 0x00, 0x03}; !bytes.Equal(back, want) {
		t.Errorf("Pack16To8 = %v, want %v", back, want)
	}
	if bytes.Equal(back, []byte{0x01, 0x02, 0x03}) {
		t.Error("odd-length pack round trip unexpectedly symmetric")
	}

	if got := Pack8To16([]byte{0xFF}); !slices.Equal(got, []uint16{0x00FF}) {
		t.Errorf("Pack8To16([0xFF]) = %#v, want [0x00FF]", got)
	}
}
