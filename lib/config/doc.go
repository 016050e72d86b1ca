// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for cloudfile.
//
// Configuration is loaded from a single file specified by either the
// CLOUDFILE_CONFIG environment variable (via [Load]) or a --config
// flag (via [LoadFile]). There is no ~/.config discovery and no
// automatic file search; without a file, commands run on [Default].
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No environment
// variable overrides a config value.
//
// Unknown keys are rejected so a misspelled option fails loudly
// instead of silently falling back to its default.
//
// Key exports:
//
//   - [Config] -- master struct with Catalog, Account, Hosts, Network, Export
//   - [Default] -- production hosts, complete-read framing, zstd bundles
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - typed accessors ([Config.Passkey], [Config.ReadMode],
//     [Config.DialTimeout], [Config.Compression]) that parse the
//     string fields into the types the rest of cloudfile consumes
package config
