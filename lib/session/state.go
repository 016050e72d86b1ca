// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import "fmt"

// Target selects which remote host a connection is opened to.
type Target int

const (
	// CatalogHost serves the directory listing and delete endpoints.
	CatalogHost Target = iota + 1

	// DownloadHost serves share download pages.
	DownloadHost
)

func (t Target) String() string {
	switch t {
	case CatalogHost:
		return "catalog"
	case DownloadHost:
		return "download"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}

// State is the connection state of a Session.
type State int

const (
	Disconnected State = iota
	ConnectedCatalogHost
	ConnectedDownloadHost
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case ConnectedCatalogHost:
		return "connected-catalog"
	case ConnectedDownloadHost:
		return "connected-download"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func stateFor(target Target) State {
	switch target {
	case CatalogHost:
		return ConnectedCatalogHost
	case DownloadHost:
		return ConnectedDownloadHost
	default:
		return Disconnected
	}
}
