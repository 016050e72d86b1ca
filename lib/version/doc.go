// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// cloudfile binary.
//
// Three package-level variables are injected at build time via
// -ldflags -X:
//
//	go build -ldflags "-X github.com/salfa/cloudfile/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// When GitCommit is not injected, [Current] falls back to the VCS
// revision the Go toolchain stamps into the binary, so `go install`
// builds still report a commit.
package version
