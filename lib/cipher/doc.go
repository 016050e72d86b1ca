// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cipher implements the reversible matrix obfuscation used by
// cloudfile containers. It is not a security primitive: the passkey is
// stored in plaintext in every container header, and there is no
// integrity check.
//
// A [Passkey] is four bytes read as the 2x2 matrix [[a,b],[c,d]]. Each
// component must be in [0,128] and the determinant a*d - b*c must be
// strictly positive; [Encode] and [Decode] both enforce this.
//
// [Encode] maps each pair of plaintext bytes (p0,p1) to the 16-bit words
// (a*p0+b*p1, c*p0+d*p1). With components capped at 128 every word fits
// in 16 bits. [Decode] inverts this with integer division by the
// determinant, which is exact only for word sequences produced by
// Encode.
//
// [Pack16To8] and [Pack8To16] move between word and byte sequences,
// big-endian. They are deliberately not inverse on odd lengths: an odd
// trailing word packs to two bytes, but an odd trailing byte unpacks to
// a single zero-extended word. Existing container files depend on this
// exact behavior, so it is preserved.
//
// Passkeys may be generated from a random source ([GeneratePasskey]) or
// derived from a passphrase with HKDF-SHA256 ([DerivePasskey]).
package cipher
