// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"filippo.io/age"

	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/codec"
	"github.com/salfa/cloudfile/lib/fault"
	"github.com/salfa/cloudfile/lib/sealed"
)

// Magic identifies an unsealed bundle.
const Magic = "CFBNDL01"

// ManifestVersion is the only manifest version this package writes
// and reads.
const ManifestVersion = 1

// MaxManifestSize bounds the uncompressed manifest a bundle may
// declare.
const MaxManifestSize = 64 << 20

const headerSize = len(Magic) + 1 + 4

// Manifest is the decoded bundle body.
type Manifest struct {
	Version     int                 `cbor:"1,keyasint"`
	Fingerprint catalog.Fingerprint `cbor:"2,keyasint"`
	EntryCount  int                 `cbor:"3,keyasint"`
	Container   []byte              `cbor:"4,keyasint"`
}

// Options controls Export.
type Options struct {
	Compression CompressionTag

	// Recipients and Passphrase seal the bundle with age. At most one
	// may be set; with neither, the bundle is written unsealed.
	Recipients []string
	Passphrase []byte

	// ScryptWorkFactor overrides age's passphrase cost. Zero keeps the
	// default.
	ScryptWorkFactor int
}

// Export serializes cat into a bundle.
func Export(cat *catalog.Catalog, options Options) ([]byte, error) {
	manifest := Manifest{
		Version:     ManifestVersion,
		Fingerprint: cat.Fingerprint(),
		EntryCount:  cat.Len(),
		Container:   bytes.Clone(cat.Bytes()),
	}
	encoded, err := codec.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	compressed, tag, err := compress(encoded, options.Compression)
	if err != nil {
		return nil, fmt.Errorf("compressing manifest: %w", err)
	}

	data := make([]byte, 0, headerSize+len(compressed))
	data = append(data, Magic...)
	data = append(data, byte(tag))
	data = binary.BigEndian.AppendUint32(data, uint32(len(encoded)))
	data = append(data, compressed...)

	if len(options.Recipients) == 0 && len(options.Passphrase) == 0 {
		return data, nil
	}
	sealedData, err := sealed.Seal(data, sealed.SealOptions{
		Recipients:       options.Recipients,
		Passphrase:       options.Passphrase,
		ScryptWorkFactor: options.ScryptWorkFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("sealing bundle: %w", err)
	}
	return sealedData, nil
}

// ImportOptions supplies keys for sealed bundles. Unsealed bundles
// ignore them.
type ImportOptions struct {
	Identities []age.Identity
	Passphrase []byte
}

// Decode opens, decompresses, and verifies a bundle without loading
// the catalog. It also returns the manifest's raw CBOR encoding.
func Decode(data []byte, options ImportOptions) (*Manifest, []byte, error) {
	const op = "bundle.Decode"

	if sealed.IsSealed(data) {
		opened, err := sealed.Open(data, sealed.OpenOptions{
			Identities: options.Identities,
			Passphrase: options.Passphrase,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening sealed bundle: %w", err)
		}
		data = opened
	}

	if len(data) < headerSize || string(data[:len(Magic)]) != Magic {
		return nil, nil, fault.New(fault.Unsupported, op, "not a cloudfile bundle")
	}
	tag := CompressionTag(data[len(Magic)])
	size := binary.BigEndian.Uint32(data[len(Magic)+1 : headerSize])
	if tag > CompressionZstd {
		return nil, nil, fault.New(fault.Unsupported, op, "unknown compression tag %d", tag)
	}
	if size > MaxManifestSize {
		return nil, nil, fault.New(fault.InvalidData, op, "manifest size %d exceeds limit %d", size, MaxManifestSize)
	}

	encoded, err := decompress(data[headerSize:], tag, int(size))
	if err != nil {
		return nil, nil, fault.Wrap(fault.InvalidData, op, err, "decompressing manifest")
	}
	var manifest Manifest
	if err := codec.Unmarshal(encoded, &manifest); err != nil {
		return nil, nil, fault.Wrap(fault.InvalidData, op, err, "decoding manifest")
	}
	if manifest.Version != ManifestVersion {
		return nil, nil, fault.New(fault.Unsupported, op, "manifest version %d (want %d)", manifest.Version, ManifestVersion)
	}
	if got := catalog.FingerprintBytes(manifest.Container); got != manifest.Fingerprint {
		return nil, nil, fault.New(fault.InvalidData, op,
			"container fingerprint %s does not match manifest %s", got, manifest.Fingerprint)
	}
	return &manifest, encoded, nil
}

// Import decodes a bundle and loads its catalog.
func Import(data []byte, options ImportOptions) (*catalog.Catalog, error) {
	manifest, _, err := Decode(data, options)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(manifest.Container)
	if err != nil {
		return nil, fmt.Errorf("loading bundled catalog: %w", err)
	}
	if cat.Len() != manifest.EntryCount {
		return nil, fault.New(fault.InvalidData, "bundle.Import",
			"catalog has %d entries, manifest declares %d", cat.Len(), manifest.EntryCount)
	}
	return cat, nil
}
