// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bytes"
	"strings"

	"github.com/salfa/cloudfile/lib/container"
	"github.com/salfa/cloudfile/lib/fault"
)

// Separator bytes. Credential and entry strings must not contain them.
const (
	fieldSeparator = "\x1b" // ESC: between credentials, between entries
	pairSeparator  = "\x1a" // SUB: between an entry's name and object id
)

func containsSeparator(value string) bool {
	return strings.Contains(value, fieldSeparator) || strings.Contains(value, pairSeparator)
}

var separatorReplacer = strings.NewReplacer(fieldSeparator, "\uFFFD", pairSeparator, "\uFFFD")

// SanitizeName replaces separator bytes in a display name with U+FFFD
// so that the name can be stored. Object ids are not sanitized: a
// rewritten id would no longer resolve.
func SanitizeName(name string) string {
	return separatorReplacer.Replace(name)
}

// ValidObjectID reports whether objectID can be stored in a catalog.
func ValidObjectID(objectID string) bool {
	return !containsSeparator(objectID)
}

// encodePlaintext renders credentials and entries as container
// plaintext.
func encodePlaintext(credentials Credentials, entries []Entry) ([]byte, error) {
	base := strings.Join([]string{credentials.UID, credentials.Token, credentials.DirID}, fieldSeparator)
	if len(base) > container.BaseRegionSize {
		return nil, fault.New(fault.InvalidInput, "catalog.encode",
			"credentials take %d bytes, base region holds %d", len(base), container.BaseRegionSize)
	}

	var plaintext bytes.Buffer
	plaintext.Grow(container.BaseRegionSize + 32*len(entries))
	plaintext.WriteString(base)
	plaintext.Write(make([]byte, container.BaseRegionSize-len(base)))

	for index, entry := range entries {
		if index > 0 {
			plaintext.WriteString(fieldSeparator)
		}
		plaintext.WriteString(entry.Name)
		plaintext.WriteString(pairSeparator)
		plaintext.WriteString(entry.ObjectID)
	}
	return plaintext.Bytes(), nil
}

// decodePlaintext splits container plaintext into credentials and
// entries.
func decodePlaintext(plaintext []byte) (Credentials, []Entry, error) {
	if len(plaintext) < container.BaseRegionSize {
		return Credentials{}, nil, fault.New(fault.InvalidData, "catalog.decode",
			"plaintext is %d bytes, base region needs %d", len(plaintext), container.BaseRegionSize)
	}
	base, list := plaintext[:container.BaseRegionSize], plaintext[container.BaseRegionSize:]

	fields := strings.SplitN(string(base), fieldSeparator, 3)
	if len(fields) != 3 {
		return Credentials{}, nil, fault.New(fault.InvalidData, "catalog.decode",
			"base region holds %d credential fields, want 3", len(fields))
	}
	credentials := Credentials{
		UID:   trimField(fields[0]),
		Token: trimField(fields[1]),
		DirID: trimField(fields[2]),
	}

	// An odd-length list region is encoded with one padding byte, which
	// decodes as a trailing zero.
	list = bytes.TrimRight(list, "\x00")
	if len(list) == 0 {
		return credentials, nil, nil
	}

	var entries []Entry
	for index, record := range strings.Split(string(list), fieldSeparator) {
		name, objectID, found := strings.Cut(record, pairSeparator)
		if !found {
			return Credentials{}, nil, fault.New(fault.InvalidData, "catalog.decode",
				"list entry %d has no name/object id separator", index)
		}
		entries = append(entries, Entry{Name: name, ObjectID: objectID})
	}
	return credentials, entries, nil
}

// trimField strips the zero padding of the base region and surrounding
// whitespace.
func trimField(field string) string {
	return strings.TrimSpace(strings.Trim(field, "\x00"))
}
