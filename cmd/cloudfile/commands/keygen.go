// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/sealed"
)

type keygenParams struct {
	cli.Verbosity
	Out string `json:"out" flag:"out,o" desc:"identity file to create (default: print to stdout)"`
}

func keygenCommand(env *environment) *cli.Command {
	var params keygenParams

	return &cli.Command{
		Name:    "keygen",
		Summary: "Generate an age keypair for sealed bundles",
		Description: `Generate an age X25519 keypair in the age identity file format. The
public key (age1...) goes in export.recipients or --recipient; the
identity file is passed to import and inspect with --identity-file.`,
		Usage:  "cloudfile keygen [--out <file>]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile keygen [--out <file>]"); err != nil {
				return err
			}
			keypair, err := sealed.GenerateKeypair()
			if err != nil {
				return cli.Internal("%w", err)
			}
			identity := fmt.Sprintf("# created: %s\n# public key: %s\n%s\n",
				time.Now().UTC().Format(time.RFC3339), keypair.PublicKey, keypair.PrivateKey)

			if params.Out == "" {
				fmt.Fprint(env.stdout, identity)
				return nil
			}

			file, err := os.OpenFile(params.Out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if errors.Is(err, os.ErrExist) {
				return cli.Conflict("%s already exists", params.Out)
			}
			if err != nil {
				return cli.Internal("creating identity file: %w", err)
			}
			if _, err := file.WriteString(identity); err != nil {
				file.Close()
				return cli.Internal("writing identity file: %w", err)
			}
			if err := file.Close(); err != nil {
				return cli.Internal("closing identity file: %w", err)
			}
			fmt.Fprintf(env.stderr, "Public key: %s\n", keypair.PublicKey)
			return nil
		},
	}
}
