// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
)

type listParams struct {
	configParams
	cli.JSONOutput
}

func listCommand(env *environment) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List catalog entries",
		Description: `List every catalog entry in scan order: object id, then name.
Entries are not deduplicated; a file scanned twice appears twice.`,
		Usage:  "cloudfile list [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile list [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}

			return withCatalog(cfg, func(_ *catalogstore.Store, cat *catalog.Catalog) error {
				entries := cat.Entries()
				if done, err := params.EmitJSON(env.stdout, entries); done {
					return err
				}

				writer := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)
				for _, entry := range entries {
					fmt.Fprintf(writer, "%s\t%s\n", entry.ObjectID, entry.Name)
				}
				return writer.Flush()
			})
		},
		Examples: []cli.Example{
			{
				Description: "Names only",
				Command:     "cloudfile list --json | jq -r '.[].name'",
			},
		},
	}
}
