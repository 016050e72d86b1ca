// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
)

type mergeParams struct {
	configParams
}

func mergeCommand(env *environment) *cli.Command {
	var params mergeParams

	return &cli.Command{
		Name:    "merge",
		Summary: "Append another catalog container's entries",
		Description: `Append every entry of another raw catalog container to this catalog,
in order. The other container may use a different passkey; its
credentials are ignored. Merged entries are not deduplicated.`,
		Usage:  "cloudfile merge <container-file> [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 1, "cloudfile merge <container-file> [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return cli.Internal("reading %s: %w", args[0], err)
			}

			return withCatalog(cfg, func(store *catalogstore.Store, cat *catalog.Catalog) error {
				before := cat.Len()
				if err := cat.MergeBytes(data); err != nil {
					return fmt.Errorf("merging %s: %w", args[0], err)
				}
				if err := saveCatalog(store, cat, logger); err != nil {
					return err
				}
				fmt.Fprintf(env.stdout, "merged %d entries (%d total)\n", cat.Len()-before, cat.Len())
				return nil
			})
		},
	}
}
