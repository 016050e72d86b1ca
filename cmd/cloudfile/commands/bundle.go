// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"filippo.io/age"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/bundle"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
	"github.com/salfa/cloudfile/lib/codec"
	"github.com/salfa/cloudfile/lib/sealed"
)

type exportParams struct {
	configParams
	Out            string   `json:"out"             flag:"out,o"           desc:"bundle file to write, or - for stdout"`
	Compression    string   `json:"compression"     flag:"compression"     desc:"none, lz4, or zstd (default: export.compression)"`
	Recipients     []string `json:"recipients"      flag:"recipient,r"     desc:"seal to this age public key (repeatable; default: export.recipients)"`
	PassphraseFile string   `json:"passphrase_file" flag:"passphrase-file" desc:"seal with the passphrase in this file (- for stdin)"`
	Plain          bool     `json:"plain"           flag:"plain"           desc:"do not seal, even when export.recipients is set"`
}

func exportCommand(env *environment) *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Write the catalog to a portable bundle",
		Description: `Write the catalog as a bundle: a compressed, fingerprinted CBOR
manifest wrapping the raw container. The bundle is sealed with age when
recipients or a passphrase are given (or export.recipients is set in
the config), so it can be stored somewhere untrusted.`,
		Usage:  "cloudfile export --out <file> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile export --out <file> [flags]"); err != nil {
				return err
			}
			if params.Out == "" {
				return cli.Validation("--out is required")
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}

			compression, err := cfg.Compression()
			if params.Compression != "" {
				compression, err = bundle.ParseCompressionTag(params.Compression)
			}
			if err != nil {
				return cli.Validation("compression: %w", err)
			}

			options := bundle.Options{Compression: compression}
			switch {
			case params.Plain:
				if len(params.Recipients) > 0 || params.PassphraseFile != "" {
					return cli.Validation("--plain excludes --recipient and --passphrase-file")
				}
			case params.PassphraseFile != "":
				if len(params.Recipients) > 0 {
					return cli.Validation("--recipient and --passphrase-file are mutually exclusive")
				}
				passphrase, err := readSecret(env, params.PassphraseFile, "passphrase")
				if err != nil {
					return err
				}
				options.Passphrase = passphrase
			case len(params.Recipients) > 0:
				options.Recipients = params.Recipients
			default:
				options.Recipients = cfg.Export.Recipients
			}

			return withCatalog(cfg, func(_ *catalogstore.Store, cat *catalog.Catalog) error {
				data, err := bundle.Export(cat, options)
				if err != nil {
					return err
				}
				if err := writeOutput(env, params.Out, data); err != nil {
					return err
				}
				logger.Info("bundle written",
					"out", params.Out,
					"entries", cat.Len(),
					"compression", compression.String(),
					"sealed", len(options.Recipients) > 0 || len(options.Passphrase) > 0,
					"bytes", len(data),
				)
				return nil
			})
		},
		Examples: []cli.Example{
			{
				Description: "Unsealed zstd bundle",
				Command:     "cloudfile export --plain --out catalog.cfb",
			},
			{
				Description: "Sealed to two age keys",
				Command:     "cloudfile export -o catalog.cfb -r age1abc... -r age1def...",
			},
		},
	}
}

// openParams are the key sources for reading sealed bundles.
type openParams struct {
	IdentityFile   string `json:"identity_file"   flag:"identity-file,i" desc:"age identity file for sealed bundles"`
	PassphraseFile string `json:"passphrase_file" flag:"passphrase-file" desc:"passphrase file for sealed bundles (- for stdin)"`
}

func (p *openParams) importOptions(env *environment, data []byte) (bundle.ImportOptions, error) {
	var options bundle.ImportOptions
	if !sealed.IsSealed(data) {
		return options, nil
	}
	if p.IdentityFile == "" && p.PassphraseFile == "" {
		return options, cli.Validation("bundle is sealed: pass --identity-file or --passphrase-file")
	}
	if p.IdentityFile != "" {
		identities, err := readIdentities(p.IdentityFile)
		if err != nil {
			return options, err
		}
		options.Identities = identities
	}
	if p.PassphraseFile != "" {
		passphrase, err := readSecret(env, p.PassphraseFile, "passphrase")
		if err != nil {
			return options, err
		}
		options.Passphrase = passphrase
	}
	return options, nil
}

func readIdentities(path string) ([]age.Identity, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, cli.Internal("opening identity file: %w", err)
	}
	defer file.Close()
	identities, err := sealed.ParseIdentities(file)
	if err != nil {
		return nil, cli.Validation("%s: %w", path, err)
	}
	return identities, nil
}

type importParams struct {
	configParams
	openParams
	Replace bool `json:"replace" flag:"replace" desc:"replace the local catalog instead of merging into it"`
}

func importCommand(env *environment) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Restore or merge a catalog bundle",
		Description: `Read a bundle written by "cloudfile export", verify its fingerprint,
and either merge its entries into the local catalog or, when there is
no local catalog (or with --replace), install it as the catalog.`,
		Usage:  "cloudfile import <bundle> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "cloudfile import <bundle> [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			data, err := readInput(env, args[0])
			if err != nil {
				return err
			}
			options, err := params.importOptions(env, data)
			if err != nil {
				return err
			}
			imported, err := bundle.Import(data, options)
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if params.Replace || !store.Exists() {
				if err := saveCatalog(store, imported, logger); err != nil {
					return err
				}
				fmt.Fprintf(env.stdout, "installed catalog with %d entries at %s\n", imported.Len(), store.Path())
				return nil
			}

			cat, err := loadCatalog(store)
			if err != nil {
				return err
			}
			if err := cat.Merge(imported); err != nil {
				return err
			}
			if err := saveCatalog(store, cat, logger); err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "merged %d entries (%d total)\n", imported.Len(), cat.Len())
			return nil
		},
	}
}

type inspectParams struct {
	cli.Verbosity
	openParams
	cli.JSONOutput
}

// bundleSummary is the JSON shape of "cloudfile inspect".
type bundleSummary struct {
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
	Entries     int    `json:"entries"`
	Container   int    `json:"container_bytes"`
	Sealed      bool   `json:"sealed"`
	Diagnostic  string `json:"diagnostic"`
}

func inspectCommand(env *environment) *cli.Command {
	var params inspectParams

	return &cli.Command{
		Name:    "inspect",
		Summary: "Describe a bundle without importing it",
		Description: `Open and verify a bundle and print its manifest: version, entry count,
fingerprint, and the manifest in CBOR diagnostic notation.`,
		Usage:  "cloudfile inspect <bundle> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 1, "cloudfile inspect <bundle> [flags]"); err != nil {
				return err
			}
			data, err := readInput(env, args[0])
			if err != nil {
				return err
			}
			options, err := params.importOptions(env, data)
			if err != nil {
				return err
			}
			manifest, raw, err := bundle.Decode(data, options)
			if err != nil {
				return err
			}
			diagnostic, err := codec.Diagnose(raw)
			if err != nil {
				return cli.Internal("rendering manifest: %w", err)
			}

			summary := bundleSummary{
				Version:     manifest.Version,
				Fingerprint: manifest.Fingerprint.String(),
				Entries:     manifest.EntryCount,
				Container:   len(manifest.Container),
				Sealed:      sealed.IsSealed(data),
				Diagnostic:  diagnostic,
			}
			if done, err := params.EmitJSON(env.stdout, summary); done {
				return err
			}
			fmt.Fprintf(env.stdout, "version:     %d\n", summary.Version)
			fmt.Fprintf(env.stdout, "sealed:      %t\n", summary.Sealed)
			fmt.Fprintf(env.stdout, "entries:     %d\n", summary.Entries)
			fmt.Fprintf(env.stdout, "container:   %d bytes\n", summary.Container)
			fmt.Fprintf(env.stdout, "fingerprint: %s\n", summary.Fingerprint)
			fmt.Fprintf(env.stdout, "manifest:\n%s\n", summary.Diagnostic)
			return nil
		},
	}
}

// readInput reads path, or stdin when path is "-".
func readInput(env *environment, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(env.stdin)
		if err != nil {
			return nil, cli.Internal("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cli.Internal("reading %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path (mode 0600), or stdout when path is
// "-".
func writeOutput(env *environment, path string, data []byte) error {
	if path == "-" {
		_, err := io.Copy(env.stdout, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return cli.Internal("writing %s: %w", path, err)
	}
	return nil
}
