// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/salfa/cloudfile/lib/bundle"
	"github.com/salfa/cloudfile/lib/cipher"
	"github.com/salfa/cloudfile/lib/netutil"
	"github.com/salfa/cloudfile/lib/remote"
)

// EnvironmentVariable names the variable Load reads the config path
// from.
const EnvironmentVariable = "CLOUDFILE_CONFIG"

// Config is the cloudfile configuration file.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Account AccountConfig `yaml:"account"`
	Hosts   HostsConfig   `yaml:"hosts"`
	Network NetworkConfig `yaml:"network"`
	Export  ExportConfig  `yaml:"export"`
}

// CatalogConfig locates the persisted catalog container.
type CatalogConfig struct {
	// Path is the container file. Default:
	// ${HOME}/.local/share/cloudfile/catalog.bin
	Path string `yaml:"path"`

	// Passkey is used only when a new catalog is created; an existing
	// catalog carries its passkey in its header. Format "a,b,c,d".
	Passkey string `yaml:"passkey"`
}

// AccountConfig identifies the remote account. Used by `cloudfile init`.
type AccountConfig struct {
	UID string `yaml:"uid"`

	// TokenFile holds the session token. "-" reads it from stdin (or
	// prompts when stdin is a terminal). The token is never accepted
	// directly in the config file or on a command line.
	TokenFile string `yaml:"token_file"`

	// DirID scopes scanning to one folder. Empty means account root.
	DirID string `yaml:"dirid"`
}

// HostsConfig holds the two remote dial addresses (host:port).
type HostsConfig struct {
	Catalog  string `yaml:"catalog"`
	Download string `yaml:"download"`
}

// NetworkConfig controls response framing and dialing.
type NetworkConfig struct {
	// ReadMode is "complete" (default) or "single" (legacy one-read
	// framing).
	ReadMode string `yaml:"read_mode"`

	// DialTimeout is a Go duration string. Default: 10s.
	DialTimeout string `yaml:"dial_timeout"`
}

// ExportConfig sets defaults for `cloudfile export`.
type ExportConfig struct {
	// Compression is "none", "lz4", or "zstd" (default).
	Compression string `yaml:"compression"`

	// Recipients are age public keys bundles are sealed to when the
	// export command names none.
	Recipients []string `yaml:"recipients"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{
		Catalog: CatalogConfig{
			Path:    "${HOME}/.local/share/cloudfile/catalog.bin",
			Passkey: "127,97,112,128",
		},
		Hosts: HostsConfig{
			Catalog:  remote.DefaultCatalogAddress,
			Download: remote.DefaultDownloadAddress,
		},
		Network: NetworkConfig{
			ReadMode:    string(netutil.ReadComplete),
			DialTimeout: "10s",
		},
		Export: ExportConfig{
			Compression: "zstd",
		},
	}
	cfg.expandVariables()
	return cfg
}

// Load loads configuration from the CLOUDFILE_CONFIG environment
// variable. It fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your cloudfile.yaml, or use --config", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Keys absent from the file
// keep their Default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Catalog.Path = expandVars(c.Catalog.Path, vars)
	c.Account.TokenFile = expandVars(c.Account.TokenFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Passkey parses Catalog.Passkey.
func (c *Config) Passkey() (cipher.Passkey, error) {
	return cipher.ParsePasskey(c.Catalog.Passkey)
}

// ReadMode parses Network.ReadMode.
func (c *Config) ReadMode() (netutil.ReadMode, error) {
	return netutil.ParseReadMode(c.Network.ReadMode)
}

// DialTimeout parses Network.DialTimeout. Empty means zero, which
// callers treat as their default.
func (c *Config) DialTimeout() (time.Duration, error) {
	if c.Network.DialTimeout == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(c.Network.DialTimeout)
	if err != nil {
		return 0, fmt.Errorf("network.dial_timeout: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("network.dial_timeout must not be negative, got %s", timeout)
	}
	return timeout, nil
}

// Compression parses Export.Compression.
func (c *Config) Compression() (bundle.CompressionTag, error) {
	return bundle.ParseCompressionTag(c.Export.Compression)
}

// Validate checks the configuration for errors and reports all of
// them at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Catalog.Path == "" {
		errs = append(errs, fmt.Errorf("catalog.path is required"))
	}
	if _, err := c.Passkey(); err != nil {
		errs = append(errs, fmt.Errorf("catalog.passkey: %w", err))
	}
	if c.Hosts.Catalog == "" {
		errs = append(errs, fmt.Errorf("hosts.catalog is required"))
	}
	if c.Hosts.Download == "" {
		errs = append(errs, fmt.Errorf("hosts.download is required"))
	}
	if _, err := c.ReadMode(); err != nil {
		errs = append(errs, fmt.Errorf("network.read_mode: %w", err))
	}
	if _, err := c.DialTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Compression(); err != nil {
		errs = append(errs, fmt.Errorf("export.compression: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
