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
	"github.com/salfa/cloudfile/lib/fault"
	"github.com/salfa/cloudfile/lib/remote"
	"github.com/salfa/cloudfile/lib/session"
)

type linkParams struct {
	configParams
	cli.JSONOutput
	All bool `json:"all" flag:"all,a" desc:"resolve every catalog entry"`
}

// resolvedLink is one row of "cloudfile link" output. URL is empty and
// Error set when resolution failed.
type resolvedLink struct {
	ObjectID string `json:"object_id"`
	Name     string `json:"name,omitempty"`
	URL      string `json:"url,omitempty"`
	Referrer string `json:"referrer,omitempty"`
	Error    string `json:"error,omitempty"`
}

func linkCommand(env *environment) *cli.Command {
	var params linkParams

	return &cli.Command{
		Name:    "link",
		Summary: "Resolve download links for object ids",
		Description: `Fetch the share download page for each object id and print the
direct download URL.

The download host only serves the URL to requests carrying a Referer
naming one of its share mirrors; the referrer to use is printed with
each link. Ids that fail to resolve are reported and the command exits
with status 1 after printing the rest.`,
		Usage:  "cloudfile link [objectId...] [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if params.All == (len(args) > 0) {
				return cli.Validation("give object ids or --all, not both or neither")
			}
			for _, objectID := range args {
				if !remote.ValidObjectID(objectID) {
					return cli.Validation("object id %q contains space or control characters", objectID)
				}
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}

			return withCatalog(cfg, func(_ *catalogstore.Store, cat *catalog.Catalog) error {
				targets := linkTargets(cat, args, params.All)
				if len(targets) == 0 {
					return params.emitLinks(env, nil)
				}

				options, err := sessionOptions(cfg, env, logger)
				if err != nil {
					return err
				}
				remoteSession := session.New(cat, options)
				defer remoteSession.Disconnect()

				if err := remoteSession.Connect(ctx, session.DownloadHost); err != nil {
					return err
				}

				failed := 0
				for index := range targets {
					target := &targets[index]
					url, err := remoteSession.ResolveLink(ctx, target.ObjectID)
					if err != nil {
						failed++
						target.Error = err.Error()
						logger.Warn("link resolution failed", "object_id", target.ObjectID, "error", err)
						if ctx.Err() != nil {
							return ctx.Err()
						}
						// A missing object leaves the connection usable;
						// anything else may have desynchronized it.
						if !fault.IsKind(err, fault.NotFound) {
							if err := remoteSession.Connect(ctx, session.DownloadHost); err != nil {
								return err
							}
						}
						continue
					}
					target.URL = url
					target.Referrer = remote.Referrer()
				}

				if err := params.emitLinks(env, targets); err != nil {
					return err
				}
				if failed > 0 {
					return &cli.ExitError{Code: 1}
				}
				return nil
			})
		},
		Examples: []cli.Example{
			{
				Description: "Resolve one link and download it",
				Command:     `cloudfile link --json 5f3a... | jq -r '.[0] | "curl -e \(.referrer) -o \(.name) \(.url)"' | sh`,
			},
			{
				Description: "Resolve every entry",
				Command:     "cloudfile link --all",
			},
		},
	}
}

// linkTargets returns the rows to resolve: every entry with --all,
// otherwise the named ids, with names filled in from the catalog where
// known.
func linkTargets(cat *catalog.Catalog, objectIDs []string, all bool) []resolvedLink {
	entries := cat.Entries()
	if all {
		targets := make([]resolvedLink, 0, len(entries))
		for _, entry := range entries {
			targets = append(targets, resolvedLink{ObjectID: entry.ObjectID, Name: entry.Name})
		}
		return targets
	}

	names := make(map[string]string, len(entries))
	for _, entry := range entries {
		names[entry.ObjectID] = entry.Name
	}
	targets := make([]resolvedLink, 0, len(objectIDs))
	for _, objectID := range objectIDs {
		targets = append(targets, resolvedLink{ObjectID: objectID, Name: names[objectID]})
	}
	return targets
}

func (p *linkParams) emitLinks(env *environment, links []resolvedLink) error {
	if done, err := p.EmitJSON(env.stdout, links); done {
		return err
	}

	writer := tabwriter.NewWriter(env.stdout, 0, 0, 2, ' ', 0)
	for _, link := range links {
		if link.Error != "" {
			fmt.Fprintf(env.stderr, "%s: %s\n", link.ObjectID, link.Error)
			continue
		}
		fmt.Fprintf(writer, "%s\t%s\treferer=%s\n", link.ObjectID, link.URL, link.Referrer)
	}
	return writer.Flush()
}
