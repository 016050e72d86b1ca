// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package container

import (
	"bytes"

	"github.com/salfa/cloudfile/lib/cipher"
	"github.com/salfa/cloudfile/lib/fault"
)

// Layout constants. These are format constants; changing any of them
// breaks compatibility with existing container files.
const (
	HeaderSize = 16

	// BaseRegionSize is the size of the plaintext credential region.
	BaseRegionSize = 64

	// MinSize is the header plus an encoded base region.
	MinSize = HeaderSize + 2*BaseRegionSize

	passkeyOffset = 8
	trailerOffset = 12
)

var (
	magicA  = [4]byte{3, 3, 4, 21}
	magicB  = [4]byte{7, 23, 10, 8}
	trailer = [4]byte{25, 0, 0, 3}
)

// Assemble encodes plaintext under passkey and prepends the header.
func Assemble(passkey cipher.Passkey, plaintext []byte) ([]byte, error) {
	words, err := cipher.Encode(passkey, plaintext)
	if err != nil {
		return nil, err
	}
	payload := cipher.Pack16To8(words)

	data := make([]byte, 0, HeaderSize+len(payload))
	data = append(data, magicA[:]...)
	data = append(data, magicB[:]...)
	data = append(data, passkey[:]...)
	data = append(data, trailer[:]...)
	data = append(data, payload...)
	return data, nil
}

// Parse validates the header and decodes the payload. Both magic fields
// must match exactly. The trailer is not checked.
//
// The round trip through Assemble is exact only for even-length
// plaintext: an odd-length plaintext comes back with one trailing zero
// byte.
func Parse(data []byte) (cipher.Passkey, []byte, error) {
	passkey, err := HeaderPasskey(data)
	if err != nil {
		return cipher.Passkey{}, nil, err
	}
	if !bytes.Equal(data[0:4], magicA[:]) || !bytes.Equal(data[4:8], magicB[:]) {
		return cipher.Passkey{}, nil, fault.New(fault.Unsupported, "container.Parse",
			"unsupported file type: magic % x % x", data[0:4], data[4:8])
	}

	plaintext, err := cipher.Decode(passkey, cipher.Pack8To16(data[HeaderSize:]))
	if err != nil {
		return cipher.Passkey{}, nil, err
	}
	return passkey, plaintext, nil
}

// HeaderPasskey extracts the passkey from the header without decoding
// the payload. Fails with [fault.InvalidInput] when data is shorter
// than MinSize.
func HeaderPasskey(data []byte) (cipher.Passkey, error) {
	if len(data) < MinSize {
		return cipher.Passkey{}, fault.New(fault.InvalidInput, "container.HeaderPasskey",
			"container is %d bytes, need at least %d", len(data), MinSize)
	}
	return cipher.PasskeyFromBytes(data[passkeyOffset:trailerOffset])
}

// Container is an assembled container. It is immutable; every change to
// the plaintext produces a new Container through Reseal.
type Container struct {
	raw []byte
}

// Seal assembles a new container.
func Seal(passkey cipher.Passkey, plaintext []byte) (Container, error) {
	data, err := Assemble(passkey, plaintext)
	if err != nil {
		return Container{}, err
	}
	return Container{raw: data}, nil
}

// Open parses data and returns the container together with its decoded
// plaintext. The container keeps its own copy of data. As with Parse,
// odd-length plaintext gains one trailing zero byte.
func Open(data []byte) (Container, []byte, error) {
	_, plaintext, err := Parse(data)
	if err != nil {
		return Container{}, nil, err
	}
	return Container{raw: bytes.Clone(data)}, plaintext, nil
}

// Reseal rebuilds the container around new plaintext, using the passkey
// embedded in the current header.
func (c Container) Reseal(plaintext []byte) (Container, error) {
	passkey, err := HeaderPasskey(c.raw)
	if err != nil {
		return Container{}, err
	}
	return Seal(passkey, plaintext)
}

// Passkey returns the passkey embedded in the header. The zero
// Container returns the zero passkey.
func (c Container) Passkey() cipher.Passkey {
	passkey, err := HeaderPasskey(c.raw)
	if err != nil {
		return cipher.Passkey{}
	}
	return passkey
}

// Bytes returns the container bytes. The slice must not be modified.
func (c Container) Bytes() []byte {
	return c.raw
}

// Len returns the container size in bytes.
func (c Container) Len() int {
	return len(c.raw)
}
