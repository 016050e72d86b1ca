// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fault defines the error taxonomy shared by the cloudfile
// packages. Every failure that a caller may want to branch on is a
// *[Error] with a stable [Kind]; the message text is for humans and may
// change.
//
//	if fault.IsKind(err, fault.Exhausted) {
//	    // scan converged, not a failure
//	}
//
// Server-originated failures keep the raw response text in
// [Error].Body so that diagnostics do not depend on the parser having
// understood the response.
//
// This package has no cloudfile-internal dependencies.
package fault
