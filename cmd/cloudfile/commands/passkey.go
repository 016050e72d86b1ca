// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/cipher"
)

type passkeyGenerateParams struct {
	cli.Verbosity
	PassphraseFile string `json:"from_passphrase_file" flag:"from-passphrase-file" desc:"derive from the passphrase in this file (- for stdin) instead of drawing at random"`
	Salt           string `json:"salt"                 flag:"salt"                 desc:"salt for --from-passphrase-file"`
}

func passkeyCommand(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "passkey",
		Summary: "Passkey utilities",
		Description: `Passkeys are the four components (a,b,c,d) of the 2x2 matrix that
scrambles the catalog. Each is in [0,128] and ad-bc must be positive.
Put the output in catalog.passkey before running "cloudfile init".`,
		Subcommands: []*cli.Command{
			passkeyGenerateCommand(env),
		},
	}
}

func passkeyGenerateCommand(env *environment) *cli.Command {
	var params passkeyGenerateParams

	return &cli.Command{
		Name:    "generate",
		Summary: "Generate a valid passkey",
		Usage:   "cloudfile passkey generate [flags]",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile passkey generate [flags]"); err != nil {
				return err
			}
			if params.Salt != "" && params.PassphraseFile == "" {
				return cli.Validation("--salt requires --from-passphrase-file")
			}

			var passkey cipher.Passkey
			if params.PassphraseFile != "" {
				passphrase, err := readSecret(env, params.PassphraseFile, "passphrase")
				if err != nil {
					return err
				}
				passkey, err = cipher.DerivePasskey(passphrase, []byte(params.Salt))
				if err != nil {
					return err
				}
			} else {
				var err error
				passkey, err = cipher.GeneratePasskey(env.random)
				if err != nil {
					return cli.Internal("%w", err)
				}
			}

			fmt.Fprintln(env.stdout, passkey.String())
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Random passkey",
				Command:     "cloudfile passkey generate",
			},
			{
				Description: "Reproducible passkey from a passphrase",
				Command:     "cloudfile passkey generate --from-passphrase-file ~/.cloudfile-pass --salt laptop",
			},
		},
	}
}
