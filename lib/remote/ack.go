// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import "github.com/salfa/cloudfile/lib/fault"

// ParseDeleteAck validates a delete response. It returns false when
// the service accepted the call but reported that the records were
// not removed ("success": false).
func ParseDeleteAck(body []byte) (bool, error) {
	const op = "remote.ParseDeleteAck"

	decoded, err := decodeEnvelope(body)
	if err != nil || !decoded.succeeded() {
		return false, fault.Remote(fault.PermissionDenied, op, "delete rejected", string(body))
	}
	if decoded.Success != nil && !*decoded.Success {
		return false, nil
	}
	return true, nil
}
