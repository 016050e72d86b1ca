// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for exported
// catalog bundles. It wraps filippo.io/age for the operations cloudfile
// needs: generate x25519 keypairs, seal to recipients or to a
// passphrase, and open with identities or a passphrase.
//
// Ciphertext is the binary age format, written to bundle files as-is.
// [IsSealed] recognizes it by its header line so importers can accept
// sealed and plain bundles alike.
//
// The catalog container is an obfuscation format, not encryption, and
// it embeds the account token. Sealing is how a catalog is moved
// between machines without exposing that token.
//
// Key exports:
//
//   - [GenerateKeypair] -- new age x25519 keypair
//   - [Seal] / [Open] -- encrypt and decrypt
//   - [ParseRecipient] / [ParseIdentities] -- key validation and loading
package sealed
