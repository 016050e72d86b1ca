// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
)

// header is the first line of every binary age file.
const header = "age-encryption.org/v1\n"

// Keypair holds an age x25519 keypair.
type Keypair struct {
	// PrivateKey is the secret key in AGE-SECRET-KEY-1... format. It
	// must never be logged or passed on a command line.
	PrivateKey string

	// PublicKey is the corresponding public key in age1... format.
	PublicKey string
}

// GenerateKeypair generates a new age x25519 keypair.
func GenerateKeypair() (*Keypair, error) {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("generating age keypair: %w", err)
	}
	return &Keypair{
		PrivateKey: identity.String(),
		PublicKey:  identity.Recipient().String(),
	}, nil
}

// SealOptions selects who can open a sealed payload. Exactly one of
// Recipients or Passphrase must be set; age does not allow a
// passphrase to be combined with other recipients.
type SealOptions struct {
	// Recipients are age public keys (age1...).
	Recipients []string

	// Passphrase seals with scrypt.
	Passphrase []byte

	// ScryptWorkFactor overrides the scrypt cost (log2 N). Zero keeps
	// age's default.
	ScryptWorkFactor int
}

// Seal encrypts plaintext and returns binary age ciphertext.
func Seal(plaintext []byte, options SealOptions) ([]byte, error) {
	var recipients []age.Recipient
	switch {
	case len(options.Recipients) > 0 && len(options.Passphrase) > 0:
		return nil, errors.New("a passphrase cannot be combined with recipient keys")
	case len(options.Passphrase) > 0:
		recipient, err := age.NewScryptRecipient(string(options.Passphrase))
		if err != nil {
			return nil, fmt.Errorf("creating passphrase recipient: %w", err)
		}
		if options.ScryptWorkFactor > 0 {
			recipient.SetWorkFactor(options.ScryptWorkFactor)
		}
		recipients = append(recipients, recipient)
	case len(options.Recipients) > 0:
		for _, key := range options.Recipients {
			recipient, err := ParseRecipient(key)
			if err != nil {
				return nil, err
			}
			recipients = append(recipients, recipient)
		}
	default:
		return nil, errors.New("at least one recipient or a passphrase is required")
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// OpenOptions supplies the keys tried when opening a sealed payload.
type OpenOptions struct {
	// Identities are age private keys (AGE-SECRET-KEY-1...).
	Identities []age.Identity

	// Passphrase opens payloads sealed with Seal's Passphrase option.
	Passphrase []byte
}

// Open decrypts binary age ciphertext.
func Open(ciphertext []byte, options OpenOptions) ([]byte, error) {
	identities := append([]age.Identity(nil), options.Identities...)
	if len(options.Passphrase) > 0 {
		identity, err := age.NewScryptIdentity(string(options.Passphrase))
		if err != nil {
			return nil, fmt.Errorf("creating passphrase identity: %w", err)
		}
		identities = append(identities, identity)
	}
	if len(identities) == 0 {
		return nil, errors.New("payload is sealed: an identity or passphrase is required")
	}

	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	return plaintext, nil
}

// IsSealed reports whether data starts with the age header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(header))
}

// ParseRecipient validates and parses an age x25519 public key.
func ParseRecipient(publicKey string) (*age.X25519Recipient, error) {
	recipient, err := age.ParseX25519Recipient(strings.TrimSpace(publicKey))
	if err != nil {
		return nil, fmt.Errorf("invalid age public key %q: %w", publicKey, err)
	}
	return recipient, nil
}

// ParseIdentities parses an identity file: one AGE-SECRET-KEY-1 per
// line, with blank lines and # comments ignored.
func ParseIdentities(reader io.Reader) ([]age.Identity, error) {
	identities, err := age.ParseIdentities(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing identities: %w", err)
	}
	return identities, nil
}
