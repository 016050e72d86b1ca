// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cipher

import "github.com/salfa/cloudfile/lib/fault"

// Encode applies the passkey matrix to plaintext. Each byte pair
// (p0,p1) becomes the words (a*p0+b*p1, c*p0+d*p1). An odd trailing
// byte p is encoded alone as (a*p, c*p). The result always has an even
// number of words.
func Encode(passkey Passkey, plaintext []byte) ([]uint16, error) {
	if err := passkey.Validate(); err != nil {
		return nil, err
	}
	a, b, c, d := uint16(passkey[0]), uint16(passkey[1]), uint16(passkey[2]), uint16(passkey[3])

	words := make([]uint16, 0, len(plaintext)+len(plaintext)%2)
	pairs := len(plaintext) / 2
	for i := 0; i < pairs; i++ {
		p0, p1 := uint16(plaintext[2*i]), uint16(plaintext[2*i+1])
		words = append(words, a*p0+b*p1, c*p0+d*p1)
	}
	if len(plaintext)%2 == 1 {
		last := uint16(plaintext[len(plaintext)-1])
		words = append(words, a*last, c*last)
	}
	return words, nil
}

// Decode inverts Encode: p0 = (d*w0 - b*w1)/det, p1 = (a*w1 - c*w0)/det.
// The word sequence must have even length. Decoding words that did not
// come from Encode with the same passkey yields unspecified bytes; there
// is no integrity check.
//
// An odd-length plaintext encodes its last byte as a full pair, so it
// decodes with one extra trailing zero byte. Containers always encode
// an even-length base region, so this never surfaces there.
func Decode(passkey Passkey, words []uint16) ([]byte, error) {
	if err := passkey.Validate(); err != nil {
		return nil, err
	}
	if len(words)%2 == 1 {
		return nil, fault.New(fault.InvalidInput, "cipher.Decode",
			"word sequence has odd length %d", len(words))
	}

	a, b, c, d := int64(passkey[0]), int64(passkey[1]), int64(passkey[2]), int64(passkey[3])
	determinant := a*d - b*c

	plaintext := make([]byte, 0, len(words))
	for i := 0; i < len(words); i += 2 {
		w0, w1 := int64(words[i]), int64(words[i+1])
		plaintext = append(plaintext,
			byte((d*w0-b*w1)/determinant),
			byte((a*w1-c*w0)/determinant))
	}
	return plaintext, nil
}
