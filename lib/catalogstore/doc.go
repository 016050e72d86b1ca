// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalogstore persists catalog container bytes to a file.
//
// A catalog is mutated in place by a session and must never be driven
// by two sessions at once. [Open] takes an exclusive advisory lock on
// a sibling "<path>.lock" file and fails immediately if another
// process holds it; the lock is released by [Store.Close] or process
// exit.
//
// [Store.Write] replaces the file atomically: the bytes go to a
// temporary file that is synced, renamed over the target, and followed
// by a sync of the parent directory. A crash leaves either the old or
// the new container, never a torn one.
package catalogstore
