// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package container assembles and parses the cloudfile container: a
// 16-byte fixed header followed by the cipher-encoded payload.
//
//	offset  length  meaning
//	0       4       magic A   {3,3,4,21}
//	4       4       magic B   {7,23,10,8}
//	8       4       passkey   (plaintext)
//	12      4       trailer   {25,0,0,3}
//	16      ...     payload   Pack16To8(Encode(passkey, plaintext))
//
// The decoded plaintext starts with a 64-byte base region; a container
// holding only the base region is 16 + 128 = 144 bytes, which is the
// minimum accepted by [Parse].
//
// The passkey lives in the header, not in memory. [Container] is the
// value type that carries it: [Container.Reseal] re-reads the passkey
// from its own header bytes, so a container can never be re-encoded
// under a different key by accident.
package container
