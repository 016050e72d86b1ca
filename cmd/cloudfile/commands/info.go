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

type infoParams struct {
	configParams
	cli.JSONOutput
}

// catalogInfo is the JSON shape of "cloudfile info". The token is
// deliberately absent.
type catalogInfo struct {
	Path        string `json:"path"`
	UID         string `json:"uid"`
	DirID       string `json:"dirid"`
	Passkey     string `json:"passkey"`
	Entries     int    `json:"entries"`
	Size        int    `json:"size"`
	Fingerprint string `json:"fingerprint"`
}

func infoCommand(env *environment) *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Show catalog summary and fingerprint",
		Description: `Show the catalog's account, passkey, entry count, container size,
and fingerprint. The fingerprint is a keyed BLAKE3 digest of the
container bytes: two copies with the same fingerprint are identical.`,
		Usage:  "cloudfile info [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile info [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}

			return withCatalog(cfg, func(store *catalogstore.Store, cat *catalog.Catalog) error {
				credentials := cat.Credentials()
				info := catalogInfo{
					Path:        store.Path(),
					UID:         credentials.UID,
					DirID:       credentials.DirID,
					Passkey:     cat.Passkey().String(),
					Entries:     cat.Len(),
					Size:        len(cat.Bytes()),
					Fingerprint: cat.Fingerprint().String(),
				}
				if done, err := params.EmitJSON(env.stdout, info); done {
					return err
				}

				writer := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintf(writer, "path:\t%s\n", info.Path)
				fmt.Fprintf(writer, "uid:\t%s\n", info.UID)
				fmt.Fprintf(writer, "dirid:\t%s\n", displayDirID(info.DirID))
				fmt.Fprintf(writer, "passkey:\t%s\n", info.Passkey)
				fmt.Fprintf(writer, "entries:\t%d\n", info.Entries)
				fmt.Fprintf(writer, "size:\t%d bytes\n", info.Size)
				fmt.Fprintf(writer, "fingerprint:\t%s\n", info.Fingerprint)
				return writer.Flush()
			})
		},
	}
}

func displayDirID(dirID string) string {
	if dirID == "" {
		return "(account root)"
	}
	return dirID
}
