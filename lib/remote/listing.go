// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/salfa/cloudfile/lib/fault"
)

// Record is one directory entry returned by the listing endpoint.
type Record struct {
	ObjectID string
	Name     string

	// ResID is the residual id passed to the delete endpoint to
	// acknowledge the record. It is distinct from ObjectID.
	ResID string
}

// Listing field names. The service spells them exactly this way.
const (
	fieldObjectID = "objectId"
	fieldName     = "name"
	fieldResID    = "residstr"
)

// ParseListing validates a listing response body and returns its
// records in service order. An empty "data" array yields no records
// and no error.
func ParseListing(body []byte) ([]Record, error) {
	const op = "remote.ParseListing"

	decoded, err := decodeEnvelope(body)
	if err != nil {
		// A body that claims success but cannot be decoded is a parse
		// failure; anything else is the service refusing the call.
		if bytes.Contains(body, []byte(`"result":true`)) {
			return nil, fault.Remote(fault.RemoteParse, op, err.Error(), string(body))
		}
		return nil, fault.Remote(fault.PermissionDenied, op, "listing rejected", string(body))
	}
	if !decoded.succeeded() {
		return nil, fault.Remote(fault.PermissionDenied, op, "listing rejected", string(body))
	}

	var raw []map[string]json.RawMessage
	if len(decoded.Data) == 0 || bytes.Equal(decoded.Data, []byte("null")) {
		return nil, fault.Remote(fault.RemoteParse, op, `missing "data" array`, string(body))
	}
	if err := json.Unmarshal(decoded.Data, &raw); err != nil {
		return nil, fault.Remote(fault.RemoteParse, op, `"data" is not an array of records`, string(body))
	}

	records := make([]Record, 0, len(raw))
	for index, fields := range raw {
		var record Record
		for _, field := range []struct {
			name   string
			target *string
		}{
			{fieldObjectID, &record.ObjectID},
			{fieldName, &record.Name},
			{fieldResID, &record.ResID},
		} {
			value, err := scalarField(fields, field.name)
			if err != nil {
				return nil, fault.Remote(fault.RemoteParse, op,
					"record "+strconv.Itoa(index)+": "+err.Error(), string(body))
			}
			*field.target = value
		}
		records = append(records, record)
	}
	return records, nil
}

type fieldError struct {
	name   string
	reason string
}

func (e *fieldError) Error() string {
	return `field "` + e.name + `" ` + e.reason
}

// scalarField returns a string or numeric field as text. Residual ids
// arrive as strings; some object ids arrive as bare numbers.
func scalarField(fields map[string]json.RawMessage, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", &fieldError{name: name, reason: "missing"}
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return "", &fieldError{name: name, reason: "malformed"}
	}
	switch typed := value.(type) {
	case string:
		return typed, nil
	case json.Number:
		return typed.String(), nil
	default:
		return "", &fieldError{name: name, reason: "is not a string or number"}
	}
}
