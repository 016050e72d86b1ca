// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundle exports a catalog to a portable, integrity-checked
// file and imports it back.
//
// A bundle is:
//
//	offset  size  field
//	0       8     magic "CFBNDL01"
//	8       1     compression tag (0 none, 1 lz4, 2 zstd)
//	9       4     uncompressed manifest length, big-endian
//	13      ...   compressed manifest
//
// The manifest is deterministic CBOR (see lib/codec) holding the
// catalog container bytes, their fingerprint, and the entry count.
// Import recomputes the fingerprint and the entry count and rejects a
// bundle whose contents disagree with its manifest.
//
// The whole bundle can additionally be sealed with age (see
// lib/sealed). Import detects sealing by the age header and opens the
// bundle before parsing it.
package bundle
