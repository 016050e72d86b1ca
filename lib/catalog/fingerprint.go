// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint is a keyed BLAKE3 digest of container bytes.
type Fingerprint [32]byte

// fingerprintKey separates catalog fingerprints from any other BLAKE3
// use. ASCII, zero-padded to 32 bytes. Changing it changes every
// fingerprint.
var fingerprintKey = [32]byte{
	'c', 'l', 'o', 'u', 'd', 'f', 'i', 'l', 'e', '.', 'c', 'a', 't', 'a', 'l', 'o',
	'g', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// FingerprintBytes computes the fingerprint of arbitrary container
// bytes.
func FingerprintBytes(data []byte) Fingerprint {
	hasher, err := blake3.NewKeyed(fingerprintKey[:])
	if err != nil {
		// NewKeyed only fails on a key that is not 32 bytes.
		panic("catalog: blake3 keyed hasher: " + err.Error())
	}
	hasher.Write(data)

	var fingerprint Fingerprint
	copy(fingerprint[:], hasher.Sum(nil))
	return fingerprint
}

// Fingerprint returns the fingerprint of the current container bytes.
// The container format has no integrity check of its own; comparing
// fingerprints detects corruption or divergence between two copies.
func (c *Catalog) Fingerprint() Fingerprint {
	return FingerprintBytes(c.Bytes())
}

// String returns the hex encoding.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// ParseFingerprint parses a 64-character hex fingerprint.
func ParseFingerprint(text string) (Fingerprint, error) {
	var fingerprint Fingerprint
	decoded, err := hex.DecodeString(text)
	if err != nil {
		return fingerprint, fmt.Errorf("parsing fingerprint: %w", err)
	}
	if len(decoded) != len(fingerprint) {
		return fingerprint, fmt.Errorf("fingerprint is %d bytes, want %d", len(decoded), len(fingerprint))
	}
	copy(fingerprint[:], decoded)
	return fingerprint, nil
}
