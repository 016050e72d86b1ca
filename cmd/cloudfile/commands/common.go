// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
	"github.com/salfa/cloudfile/lib/config"
	"github.com/salfa/cloudfile/lib/session"
)

// configParams is embedded by every command that reads the config
// file.
type configParams struct {
	cli.Verbosity
	ConfigPath string `json:"-" flag:"config,c" desc:"config file (default: $CLOUDFILE_CONFIG, else built-in defaults)"`
}

// load reads and validates the configuration. --config wins over
// CLOUDFILE_CONFIG; with neither, the built-in defaults are used.
func (p *configParams) load() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case p.ConfigPath != "":
		cfg, err = config.LoadFile(p.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, cli.Validation("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid config:\n%w", err)
	}
	return cfg, nil
}

// openStore locks the configured catalog file.
func openStore(cfg *config.Config) (*catalogstore.Store, error) {
	store, err := catalogstore.Open(cfg.Catalog.Path)
	if errors.Is(err, catalogstore.ErrLocked) {
		return nil, cli.Conflict("%s: %w", cfg.Catalog.Path, err).
			WithHint("Another cloudfile command is using this catalog; wait for it to finish.")
	}
	if err != nil {
		return nil, cli.Internal("opening catalog store: %w", err)
	}
	return store, nil
}

// loadCatalog reads and parses the catalog held by store.
func loadCatalog(store *catalogstore.Store) (*catalog.Catalog, error) {
	data, err := store.Read()
	if errors.Is(err, os.ErrNotExist) {
		return nil, cli.NotFound("no catalog at %s", store.Path()).
			WithHint("Run 'cloudfile init' to create one.")
	}
	if err != nil {
		return nil, cli.Internal("reading catalog: %w", err)
	}
	cat, err := catalog.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", store.Path(), err)
	}
	return cat, nil
}

// saveCatalog writes the catalog's container bytes back to store.
func saveCatalog(store *catalogstore.Store, cat *catalog.Catalog, logger *slog.Logger) error {
	if err := store.Write(cat.Bytes()); err != nil {
		return cli.Internal("saving catalog: %w", err)
	}
	logger.Debug("catalog saved",
		"path", store.Path(),
		"entries", cat.Len(),
		"bytes", len(cat.Bytes()),
	)
	return nil
}

// withCatalog opens the configured store, loads its catalog, and runs
// fn. The store is closed (and its lock released) afterwards.
func withCatalog(cfg *config.Config, fn func(*catalogstore.Store, *catalog.Catalog) error) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	cat, err := loadCatalog(store)
	if err != nil {
		return err
	}
	return fn(store, cat)
}

// sessionOptions translates the config into session.Options.
func sessionOptions(cfg *config.Config, env *environment, logger *slog.Logger) (session.Options, error) {
	readMode, err := cfg.ReadMode()
	if err != nil {
		return session.Options{}, err
	}
	dialTimeout, err := cfg.DialTimeout()
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		CatalogAddress:  cfg.Hosts.Catalog,
		DownloadAddress: cfg.Hosts.Download,
		ReadMode:        readMode,
		Dialer:          env.dialer,
		DialTimeout:     dialTimeout,
		Logger:          logger,
	}, nil
}

// requireArgs returns a validation error unless args has exactly want
// elements.
func requireArgs(args []string, want int, usage string) error {
	if len(args) != want {
		return cli.Validation("expected %d argument(s), got %d\n\nUsage: %s", want, len(args), usage)
	}
	return nil
}
