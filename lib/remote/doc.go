// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package remote builds requests for, and validates responses from,
// the cloud-storage API: the directory listing and deletion endpoints
// on the catalog host, and the share download page on the download
// host.
//
// The service publishes no schema. Each parser accepts exactly the
// response shape the service is known to produce and fails at fixed
// points with [fault] kinds callers can branch on:
//
//   - listing: a body that is not a JSON object, or whose "result" is
//     not true, is [fault.PermissionDenied] carrying the raw body. A
//     record missing "objectId", "name", or "residstr" is
//     [fault.RemoteParse]. There is no partial-record tolerance.
//   - delete acknowledgment: "result" not true is
//     [fault.PermissionDenied]; "success": false is reported as an
//     unacknowledged delete, not an error.
//   - download page: a `var downloadUrl='...'` assignment yields the
//     URL; the service's not-found marker yields [fault.NotFound];
//     anything else is [fault.RemoteParse] carrying the raw body.
//
// Response bodies are run through jsonc before decoding so that the
// trailing commas the service sometimes emits do not fail the parse.
package remote
