// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/salfa/cloudfile/lib/bundle"
	"github.com/salfa/cloudfile/lib/cipher"
	"github.com/salfa/cloudfile/lib/netutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cloudfile.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := Default()

	if cfg.Catalog.Path != "/home/tester/.local/share/cloudfile/catalog.bin" {
		t.Errorf("catalog.path = %q", cfg.Catalog.Path)
	}
	if cfg.Hosts.Catalog != "pan-yz.chaoxing.com:80" {
		t.Errorf("hosts.catalog = %q", cfg.Hosts.Catalog)
	}
	if cfg.Hosts.Download != "sharewh.xuexi365.com:80" {
		t.Errorf("hosts.download = %q", cfg.Hosts.Download)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}

	passkey, err := cfg.Passkey()
	if err != nil {
		t.Fatalf("Passkey: %v", err)
	}
	if passkey != (cipher.Passkey{127, 97, 112, 128}) {
		t.Errorf("passkey = %v", passkey)
	}
	if mode, _ := cfg.ReadMode(); mode != netutil.ReadComplete {
		t.Errorf("read mode = %q, want complete", mode)
	}
	if timeout, _ := cfg.DialTimeout(); timeout != 10*time.Second {
		t.Errorf("dial timeout = %s, want 10s", timeout)
	}
	if tag, _ := cfg.Compression(); tag != bundle.CompressionZstd {
		t.Errorf("compression = %s, want zstd", tag)
	}
}

func TestLoad_RequiresEnvironment(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when CLOUDFILE_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "CLOUDFILE_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironment(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path := writeConfig(t, `
catalog:
  path: ${HOME}/catalogs/main.bin
account:
  uid: "2900001"
  token_file: ${TOKEN_DIR:-/run/secrets}/token
  dirid: "945550001"
network:
  read_mode: single
  dial_timeout: 3s
export:
  compression: lz4
  recipients:
    - age1qyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqszqgpqyqs3290gq
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Catalog.Path != "/home/tester/catalogs/main.bin" {
		t.Errorf("catalog.path = %q", cfg.Catalog.Path)
	}
	if cfg.Account.TokenFile != "/run/secrets/token" {
		t.Errorf("account.token_file = %q", cfg.Account.TokenFile)
	}
	if cfg.Account.UID != "2900001" || cfg.Account.DirID != "945550001" {
		t.Errorf("account = %+v", cfg.Account)
	}
	// Keys absent from the file keep defaults.
	if cfg.Catalog.Passkey != "127,97,112,128" {
		t.Errorf("catalog.passkey = %q, want the default", cfg.Catalog.Passkey)
	}
	if cfg.Hosts.Catalog != "pan-yz.chaoxing.com:80" {
		t.Errorf("hosts.catalog = %q, want the default", cfg.Hosts.Catalog)
	}
	if mode, _ := cfg.ReadMode(); mode != netutil.ReadSingle {
		t.Errorf("read mode = %q, want single", mode)
	}
	if timeout, _ := cfg.DialTimeout(); timeout != 3*time.Second {
		t.Errorf("dial timeout = %s, want 3s", timeout)
	}
	if tag, _ := cfg.Compression(); tag != bundle.CompressionLZ4 {
		t.Errorf("compression = %s, want lz4", tag)
	}
	if len(cfg.Export.Recipients) != 1 {
		t.Errorf("export.recipients = %v", cfg.Export.Recipients)
	}
}

func TestLoadFile_EmptyFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "network:\n  read_mdoe: single\n"))
	if err == nil {
		t.Fatal("LoadFile accepted a misspelled key")
	}
	if !strings.Contains(err.Error(), "read_mdoe") {
		t.Errorf("error does not name the bad key: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); !os.IsNotExist(err) {
		t.Errorf("LoadFile(missing) error = %v, want not-exist", err)
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	path := writeConfig(t, `
catalog:
  path: ""
  passkey: "1,2,3,4"
hosts:
  catalog: ""
network:
  read_mode: partial
  dial_timeout: soon
export:
  compression: brotli
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted an invalid config")
	}
	for _, want := range []string{
		"catalog.path", "catalog.passkey", "hosts.catalog",
		"network.read_mode", "network.dial_timeout", "export.compression",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate error does not mention %s:\n%v", want, err)
		}
	}
	if strings.Contains(err.Error(), "hosts.download") {
		t.Errorf("Validate flagged hosts.download, which kept its default:\n%v", err)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("CLOUDFILE_TEST_SET", "from-env")
	vars := map[string]string{"HOME": "/h"}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/x", "/h/x"},
		{"${CLOUDFILE_TEST_SET}", "from-env"},
		{"${CLOUDFILE_TEST_UNSET:-fallback}", "fallback"},
		{"${CLOUDFILE_TEST_UNSET}", ""},
		{"plain", "plain"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
