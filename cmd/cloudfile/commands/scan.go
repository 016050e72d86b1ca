// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
	"github.com/salfa/cloudfile/lib/session"
)

type scanParams struct {
	configParams
	Timeout time.Duration `json:"timeout" flag:"timeout" desc:"overall deadline for the scan (0 = none)"`
	Once    bool          `json:"once"    flag:"once"    desc:"run a single listing round instead of draining the folder"`
}

func scanCommand(env *environment) *cli.Command {
	var params scanParams

	return &cli.Command{
		Name:    "scan",
		Summary: "Drain the remote folder into the catalog",
		Description: `Repeatedly list the remote folder, append each page of records to the
catalog, and delete the listed records remotely, until a listing
comes back empty.

The remote deletion is the scan's progress marker: scanned files
disappear from the folder listing. The catalog is written back after
the scan even when it fails partway, so entries already deleted
remotely are never lost.`,
		Usage:  "cloudfile scan [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile scan [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			if params.Timeout < 0 {
				return cli.Validation("--timeout must not be negative")
			}
			if params.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, params.Timeout)
				defer cancel()
			}

			return withCatalog(cfg, func(store *catalogstore.Store, cat *catalog.Catalog) error {
				options, err := sessionOptions(cfg, env, logger)
				if err != nil {
					return err
				}
				remoteSession := session.New(cat, options)
				defer remoteSession.Disconnect()

				if err := remoteSession.Connect(ctx, session.CatalogHost); err != nil {
					return err
				}

				var added int
				var scanErr error
				if params.Once {
					added, scanErr = remoteSession.Scan(ctx)
					if errors.Is(scanErr, session.ErrDrained) {
						scanErr = nil
					}
				} else {
					added, scanErr = remoteSession.ScanAll(ctx)
				}

				// Save whatever was appended: those records are already
				// gone from the remote listing.
				if added > 0 {
					if err := saveCatalog(store, cat, logger); err != nil {
						if scanErr != nil {
							logger.Error("scan failed", "error", scanErr)
						}
						return err
					}
				}
				if scanErr != nil {
					return fmt.Errorf("scan stopped after %d new entries: %w", added, scanErr)
				}

				fmt.Fprintf(env.stdout, "added %d entries (%d total)\n", added, cat.Len())
				return nil
			})
		},
		Examples: []cli.Example{
			{
				Description: "Drain the folder with a five minute deadline",
				Command:     "cloudfile scan --timeout 5m",
			},
		},
	}
}
