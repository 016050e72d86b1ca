// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for cloudfile packages.
//
// [ScriptedDialer] stands in for the remote service. It satisfies the
// session dialer interface by handing out in-memory [net.Pipe]
// connections whose far end answers each HTTP request through a
// per-address [Handler], and it records every request line so tests
// can assert on the exact bytes a session sent. No test touches the
// real network.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
