// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"

	"github.com/salfa/cloudfile/lib/fault"
	"github.com/salfa/cloudfile/lib/remote"
)

// ResolveLink returns the direct download URL for objectID. The
// session must be connected to the download host and stays connected
// afterwards. An objectID that cannot be placed in a request line is
// rejected without any network traffic.
//
// Fetching the returned URL requires a Referer header naming one of
// the share mirrors; see [remote.Referrer].
func (s *Session) ResolveLink(ctx context.Context, objectID string) (string, error) {
	if err := s.require("session.ResolveLink", ConnectedDownloadHost); err != nil {
		return "", err
	}
	if !remote.ValidObjectID(objectID) {
		return "", fault.New(fault.InvalidInput, "session.ResolveLink", "object id %q contains space or control bytes", objectID)
	}
	response, err := s.roundTrip(ctx, s.downloadAddress, remote.DownloadPath(objectID))
	if err != nil {
		return "", fmt.Errorf("requesting download page for %s: %w", objectID, err)
	}
	return remote.ParseDownloadPage(response.Body)
}
