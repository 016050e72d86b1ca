// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// envelope is the wrapper every catalog-host endpoint answers with.
type envelope struct {
	Result  *bool           `json:"result"`
	Success *bool           `json:"success"`
	Message string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// succeeded reports whether the service flagged the call as accepted.
func (e *envelope) succeeded() bool {
	return e.Result != nil && *e.Result
}

// decodeEnvelope locates the outermost JSON object in body, normalizes
// it with jsonc, and decodes it.
func decodeEnvelope(body []byte) (*envelope, error) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	var decoded envelope
	if err := json.Unmarshal(jsonc.ToJSON(body[start:end+1]), &decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &decoded, nil
}
