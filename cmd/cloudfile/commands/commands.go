// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the cloudfile command tree.
//
// Every command that touches the catalog opens it through
// [catalogstore], so two cloudfile processes never operate on the same
// catalog at once, and writes the container back after any mutation.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/version"
)

// Root builds and returns the complete cloudfile command tree wired to
// the process's standard streams and the real network.
func Root() *cli.Command {
	return newRoot(processEnvironment())
}

func newRoot(env *environment) *cli.Command {
	return &cli.Command{
		Name: "cloudfile",
		Description: `cloudfile: an obfuscated catalog of files hosted on a remote file
service.

The catalog holds the account credentials and every scanned file's
name and object id inside a matrix-scrambled container. "scan" drains
the remote folder into the catalog; "link" turns object ids into
download URLs.`,
		Subcommands: []*cli.Command{
			initCommand(env),
			infoCommand(env),
			listCommand(env),
			scanCommand(env),
			linkCommand(env),
			mergeCommand(env),
			exportCommand(env),
			importCommand(env),
			inspectCommand(env),
			passkeyCommand(env),
			keygenCommand(env),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Fprintf(env.stdout, "cloudfile %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Create a catalog for the account in the config file",
				Command:     "cloudfile init --token-file ~/.config/cloudfile/token",
			},
			{
				Description: "Drain the remote folder into the catalog",
				Command:     "cloudfile scan",
			},
			{
				Description: "Resolve download links for every entry",
				Command:     "cloudfile link --all --json",
			},
			{
				Description: "Back up the catalog sealed to an age key",
				Command:     "cloudfile export --out catalog.cfb --recipient age1...",
			},
		},
	}
}
