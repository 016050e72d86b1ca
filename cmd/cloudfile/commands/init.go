// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
)

type initParams struct {
	configParams
	UID       string `json:"uid"        flag:"uid"        desc:"account id (default: account.uid from config)"`
	DirID     string `json:"dirid"      flag:"dirid"      desc:"remote folder id; empty scans the account root (default: account.dirid)"`
	TokenFile string `json:"token_file" flag:"token-file" desc:"file holding the session token, or - for stdin (default: account.token_file)"`
	Force     bool   `json:"force"      flag:"force"      desc:"overwrite an existing catalog"`
}

func initCommand(env *environment) *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Create an empty catalog",
		Description: `Create an empty catalog holding the account credentials.

The passkey comes from catalog.passkey in the config file and is
recorded in the catalog header; later commands read it from there. The
session token is read from a file (or stdin with --token-file -) and
is never taken from the command line.`,
		Usage:  "cloudfile init [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if err := requireArgs(args, 0, "cloudfile init [flags]"); err != nil {
				return err
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}

			credentials := catalog.Credentials{
				UID:   firstNonEmpty(params.UID, cfg.Account.UID),
				DirID: firstNonEmpty(params.DirID, cfg.Account.DirID),
			}
			if credentials.UID == "" {
				return cli.Validation("account id is required (--uid or account.uid)")
			}
			token, err := readSecret(env, firstNonEmpty(params.TokenFile, cfg.Account.TokenFile), "session token")
			if err != nil {
				return err
			}
			credentials.Token = string(token)

			passkey, err := cfg.Passkey()
			if err != nil {
				return cli.Validation("catalog.passkey: %w", err)
			}
			cat, err := catalog.Build(credentials, passkey)
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			if store.Exists() && !params.Force {
				return cli.Conflict("catalog already exists at %s", store.Path()).
					WithHint("Pass --force to replace it. Entries in the old catalog are lost.")
			}
			if err := saveCatalog(store, cat, logger); err != nil {
				return err
			}

			logger.Info("catalog created", "path", store.Path(), "uid", credentials.UID, "dirid", credentials.DirID)
			fmt.Fprintf(env.stdout, "created %s\n", store.Path())
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Create a catalog, reading the token from a file",
				Command:     "cloudfile init --uid 290000000 --token-file ~/.config/cloudfile/token",
			},
			{
				Description: "Scope scanning to one remote folder, token from stdin",
				Command:     "pass show cloudfile | cloudfile init --dirid 8836 --token-file -",
			},
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
