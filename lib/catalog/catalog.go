// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"slices"

	"github.com/salfa/cloudfile/lib/cipher"
	"github.com/salfa/cloudfile/lib/container"
	"github.com/salfa/cloudfile/lib/fault"
)

// Credentials identify the remote account scope. An empty DirID means
// the account root.
type Credentials struct {
	UID   string `json:"uid"`
	Token string `json:"-"`
	DirID string `json:"dirid"`
}

// Entry is one scanned remote file. ObjectID is the value accepted by
// link resolution. Entries are not deduplicated.
type Entry struct {
	Name     string `json:"name"`
	ObjectID string `json:"object_id"`
}

// Catalog is the credentials, the entry list, and the container bytes
// that mirror them.
type Catalog struct {
	credentials Credentials
	entries     []Entry
	container   container.Container
}

// Build creates an empty catalog and serializes its base region under
// passkey. Credentials must not contain the 0x1B or 0x1A separator
// bytes and must fit the 64-byte base region together.
func Build(credentials Credentials, passkey cipher.Passkey) (*Catalog, error) {
	for _, value := range []string{credentials.UID, credentials.Token, credentials.DirID} {
		if containsSeparator(value) {
			return nil, fault.New(fault.InvalidInput, "catalog.Build",
				"credential contains a reserved separator byte")
		}
	}

	plaintext, err := encodePlaintext(credentials, nil)
	if err != nil {
		return nil, err
	}
	sealed, err := container.Seal(passkey, plaintext)
	if err != nil {
		return nil, err
	}
	return &Catalog{credentials: credentials, container: sealed}, nil
}

// Load parses container bytes into a catalog.
func Load(data []byte) (*Catalog, error) {
	opened, plaintext, err := container.Open(data)
	if err != nil {
		return nil, err
	}
	credentials, entries, err := decodePlaintext(plaintext)
	if err != nil {
		return nil, err
	}
	return &Catalog{credentials: credentials, entries: entries, container: opened}, nil
}

// Merge appends the entries of other after the receiver's entries and
// re-serializes. Credentials are not taken from other.
func (c *Catalog) Merge(other *Catalog) error {
	return c.Append(other.entries...)
}

// MergeBytes loads a container (possibly under a different passkey) and
// merges its entries.
func (c *Catalog) MergeBytes(data []byte) error {
	other, err := Load(data)
	if err != nil {
		return err
	}
	return c.Merge(other)
}

// Append adds entries at the end of the list and re-serializes. Entries
// containing a separator byte are rejected with [fault.InvalidData] and
// the catalog is left unchanged.
func (c *Catalog) Append(entries ...Entry) error {
	for _, entry := range entries {
		if containsSeparator(entry.Name) || containsSeparator(entry.ObjectID) {
			return fault.New(fault.InvalidData, "catalog.Append",
				"entry %q contains a reserved separator byte", entry.ObjectID)
		}
	}

	previous := c.entries
	c.entries = append(slices.Clip(c.entries), entries...)
	if err := c.Reserialize(); err != nil {
		c.entries = previous
		return err
	}
	return nil
}

// Reserialize rebuilds the container bytes from the current credentials
// and entries, using the passkey embedded in the current container
// header. Fails with [fault.InvalidInput] if the current container is
// shorter than the minimum size.
func (c *Catalog) Reserialize() error {
	plaintext, err := encodePlaintext(c.credentials, c.entries)
	if err != nil {
		return err
	}
	resealed, err := c.container.Reseal(plaintext)
	if err != nil {
		return err
	}
	c.container = resealed
	return nil
}

// Credentials returns the account credentials.
func (c *Catalog) Credentials() Credentials {
	return c.credentials
}

// Entries returns a copy of the entry list in discovery order.
func (c *Catalog) Entries() []Entry {
	return slices.Clone(c.entries)
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Passkey returns the passkey embedded in the container header.
func (c *Catalog) Passkey() cipher.Passkey {
	return c.container.Passkey()
}

// Bytes returns the container bytes for persistence. The slice must not
// be modified.
func (c *Catalog) Bytes() []byte {
	return c.container.Bytes()
}
