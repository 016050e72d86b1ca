// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the in-memory form of a cloudfile container:
// the account [Credentials] and the ordered list of [Entry] values
// discovered by scanning, plus the container bytes that mirror them.
//
// The decoded container plaintext has two regions:
//
//   - base region, 64 bytes: uid, token and dirid joined by 0x1B and
//     right-padded with zero bytes
//   - list region, the rest: entries rendered as name 0x1A objectId,
//     joined by 0x1B; empty for an empty catalog
//
// Every mutation ([Catalog.Append], [Catalog.Merge],
// [Catalog.MergeBytes]) re-serializes immediately, so [Catalog.Bytes]
// always reflects the current credentials and entries. The passkey is
// fixed when the catalog is built and inherited from the container
// header on every re-serialization.
//
// A Catalog is not safe for concurrent use.
package catalog
