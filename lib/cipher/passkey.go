// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cipher

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/salfa/cloudfile/lib/fault"
)

// MaxComponent is the largest value a passkey component may take.
const MaxComponent = 128

// PasskeySize is the encoded size of a passkey in bytes.
const PasskeySize = 4

// Passkey is the 2x2 cipher matrix [[A,B],[C,D]] stored as [A,B,C,D].
type Passkey [PasskeySize]byte

// PasskeyFromBytes copies a passkey out of a byte slice. Fails with
// [fault.Unsupported] unless the slice is exactly four bytes long.
func PasskeyFromBytes(data []byte) (Passkey, error) {
	if len(data) != PasskeySize {
		return Passkey{}, fault.New(fault.Unsupported, "cipher.PasskeyFromBytes",
			"passkey must be %d bytes, got %d", PasskeySize, len(data))
	}
	var passkey Passkey
	copy(passkey[:], data)
	return passkey, nil
}

// ParsePasskey parses the comma-separated form "a,b,c,d" and validates
// the result.
func ParsePasskey(text string) (Passkey, error) {
	fields := strings.Split(text, ",")
	if len(fields) != PasskeySize {
		return Passkey{}, fault.New(fault.InvalidInput, "cipher.ParsePasskey",
			"passkey %q must have %d comma-separated components", text, PasskeySize)
	}

	var passkey Passkey
	for index, field := range fields {
		value, err := strconv.ParseUint(strings.TrimSpace(field), 10, 8)
		if err != nil {
			return Passkey{}, fault.Wrap(fault.InvalidInput, "cipher.ParsePasskey", err,
				"component %d of %q", index, text)
		}
		passkey[index] = byte(value)
	}

	if err := passkey.Validate(); err != nil {
		return Passkey{}, err
	}
	return passkey, nil
}

// String returns the "a,b,c,d" form accepted by ParsePasskey.
func (p Passkey) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", p[0], p[1], p[2], p[3])
}

// Determinant returns a*d - b*c.
func (p Passkey) Determinant() int {
	a, b, c, d := int(p[0]), int(p[1]), int(p[2]), int(p[3])
	return a*d - b*c
}

// Validate checks the component range and the determinant sign.
func (p Passkey) Validate() error {
	for index, component := range p {
		if component > MaxComponent {
			return fault.New(fault.InvalidInput, "cipher.Validate",
				"passkey component %d is %d, must be in [0,%d]", index, component, MaxComponent)
		}
	}
	if p.Determinant() <= 0 {
		return fault.New(fault.InvalidInput, "cipher.Validate",
			"passkey %s has determinant %d, must be positive", p, p.Determinant())
	}
	return nil
}

// GeneratePasskey draws a valid passkey from source (normally
// crypto/rand.Reader). Components are rejection-sampled so each is
// uniform over [0,128], and whole candidates are redrawn until the
// determinant is positive.
func GeneratePasskey(source io.Reader) (Passkey, error) {
	passkey, err := samplePasskey(source)
	if err != nil {
		return Passkey{}, fmt.Errorf("generating passkey: %w", err)
	}
	return passkey, nil
}

// DerivePasskey deterministically derives a valid passkey from a
// passphrase and salt using an HKDF-SHA256 output stream with the same
// rejection sampling as GeneratePasskey.
func DerivePasskey(passphrase, salt []byte) (Passkey, error) {
	if len(passphrase) == 0 {
		return Passkey{}, fault.New(fault.InvalidInput, "cipher.DerivePasskey", "passphrase is empty")
	}
	stream := hkdf.New(sha256.New, passphrase, salt, []byte("cloudfile passkey v1"))
	passkey, err := samplePasskey(stream)
	if err != nil {
		return Passkey{}, fmt.Errorf("deriving passkey: %w", err)
	}
	return passkey, nil
}

// samplePasskey reads bytes from source until it has assembled a valid
// passkey. Bytes at or above the largest multiple of 129 are discarded
// so that value%129 is uniform.
func samplePasskey(source io.Reader) (Passkey, error) {
	const span = MaxComponent + 1
	const limit = 256 - 256%span

	buffer := make([]byte, 16)
	for {
		var passkey Passkey
		filled := 0
		for filled < PasskeySize {
			if _, err := io.ReadFull(source, buffer); err != nil {
				return Passkey{}, err
			}
			for _, value := range buffer {
				if int(value) >= limit {
					continue
				}
				passkey[filled] = byte(int(value) % span)
				filled++
				if filled == PasskeySize {
					break
				}
			}
		}
		if passkey.Determinant() > 0 {
			return passkey, nil
		}
	}
}
