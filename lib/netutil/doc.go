// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil frames HTTP/1.1 responses read from a raw byte
// stream and classifies connection teardown errors.
//
// Two framing modes exist:
//
//   - [ReadComplete] (the default) parses the status line and headers
//     and reads the body to its declared end: Content-Length, chunked
//     encoding, or connection close. The connection stays usable for
//     the next request.
//   - [ReadSingle] performs exactly one Read of at most [LegacyReadSize]
//     bytes and splits it at the first blank line. Large responses are
//     silently truncated. It exists only for compatibility with remotes
//     that were tuned against that behavior.
//
// Body reads are bounded at [MaxResponseSize] in both modes.
package netutil
