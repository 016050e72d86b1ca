// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package session drives the cloud-storage protocol for one
// [catalog.Catalog]: scanning the remote directory into the catalog
// and resolving direct download links for its entries.
//
// A Session owns at most one connection and is always in one of three
// states:
//
//	Disconnected ──Connect(CatalogHost)──▶ ConnectedCatalogHost
//	     ▲    └────Connect(DownloadHost)─▶ ConnectedDownloadHost
//	     └──── Disconnect, or Scan convergence ──┘
//
// [Session.Scan] is valid only against the catalog host and
// [Session.ResolveLink] only against the download host; calling either
// in any other state fails with [fault.NotConnected]. Connect always
// replaces the current connection. There is no automatic reconnection.
//
// Scanning is destructive on the remote side: each round lists up to
// [remote.PageSize] records, appends them to the catalog, then deletes
// them from the listing so the next round sees the next page. A round
// that adds nothing disconnects the session and returns [ErrDrained].
// Callers loop Scan until ErrDrained, or use [Session.ScanAll].
//
// A Session is not safe for concurrent use. Calls block until the
// remote answers or the connection fails; a deadline on the context
// passed to a call is applied to the connection for that call, and
// without one a hung peer blocks indefinitely.
package session
