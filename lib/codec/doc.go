// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration shared by
// cloudfile's binary formats.
//
// JSON is used for CLI output (list --json, info --json). CBOR is used
// for the export bundle manifest, where the catalog container travels
// as a byte string and the encoding must be stable: the encoder uses
// Core Deterministic Encoding (RFC 8949 §4.2), so the same manifest
// always produces identical bytes.
//
//	data, err := codec.Marshal(manifest)
//	err = codec.Unmarshal(data, &manifest)
//
// The decoder rejects duplicate map keys and caps nesting depth and collection sizes so
// a hostile bundle cannot exhaust memory before integrity checks run.
//
// Manifest types carry `cbor` struct tags with small integer keys
// (`cbor:"1,keyasint"`): the manifest is never rendered as JSON, and
// integer keys keep the framing overhead small.
package codec
