// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/lib/catalog"
	"github.com/salfa/cloudfile/lib/catalogstore"
	"github.com/salfa/cloudfile/lib/cipher"
	"github.com/salfa/cloudfile/lib/testutil"
)

const (
	catalogAddress  = "catalog.test:80"
	downloadAddress = "share.test:80"
)

// harness is a temporary catalog directory, config file, and scripted
// remote.
type harness struct {
	t          *testing.T
	dir        string
	configPath string
	dialer     *testutil.ScriptedDialer
	stdin      *bytes.Buffer
	stdout     *bytes.Buffer
	stderr     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "cloudfile.yaml")
	config := fmt.Sprintf(`catalog:
  path: %s
  passkey: "127,97,112,128"
account:
  uid: "2901"
hosts:
  catalog: %s
  download: %s
`, filepath.Join(dir, "catalog.bin"), catalogAddress, downloadAddress)
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}
	return &harness{
		t:          t,
		dir:        dir,
		configPath: configPath,
		dialer:     testutil.NewScriptedDialer(),
		stdin:      &bytes.Buffer{},
		stdout:     &bytes.Buffer{},
		stderr:     &bytes.Buffer{},
	}
}

// run executes one command line with --config appended and returns
// its stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	env := &environment{
		stdin:  h.stdin,
		stdout: h.stdout,
		stderr: h.stderr,
		dialer: h.dialer,
		random: bytes.NewReader(bytes.Repeat([]byte{3, 1, 2, 9}, 16)),
	}
	if needsConfig(args[0]) {
		args = append(args, "--config", h.configPath)
	}
	err := newRoot(env).Execute(context.Background(), args)
	return h.stdout.String(), err
}

func needsConfig(command string) bool {
	switch command {
	case "passkey", "keygen", "inspect", "version":
		return false
	}
	return true
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	output, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("cloudfile %s: %v\nstderr: %s", strings.Join(args, " "), err, h.stderr.String())
	}
	return output
}

func (h *harness) writeFile(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		h.t.Fatal(err)
	}
	return path
}

func (h *harness) initCatalog() {
	h.t.Helper()
	tokenPath := h.writeFile("token", "secret-token\n")
	h.mustRun("init", "--token-file", tokenPath)
}

func (h *harness) loadCatalog() *catalog.Catalog {
	h.t.Helper()
	data, err := os.ReadFile(filepath.Join(h.dir, "catalog.bin"))
	if err != nil {
		h.t.Fatal(err)
	}
	cat, err := catalog.Load(data)
	if err != nil {
		h.t.Fatal(err)
	}
	return cat
}

type record struct{ objectID, name, resID string }

func listingBody(records ...record) string {
	parts := make([]string, 0, len(records))
	for _, r := range records {
		parts = append(parts, fmt.Sprintf(`{"objectId":"%s","name":"%s","residstr":"%s"}`,
			r.objectID, r.name, r.resID))
	}
	return `{"result":true,"data":[` + strings.Join(parts, ",") + `]}`
}

// serveCatalogHost answers listings with pages in order and then empty
// pages; deletes succeed.
func (h *harness) serveCatalogHost(pages ...[]record) {
	var round atomic.Int32
	h.dialer.Handle(catalogAddress, func(request testutil.Request) string {
		if strings.HasPrefix(request.Target(), "/api/delete") {
			return testutil.HTTPResponse(http.StatusOK, `{"result":true,"success":true}`)
		}
		index := int(round.Add(1)) - 1
		if index < len(pages) {
			return testutil.HTTPResponse(http.StatusOK, listingBody(pages[index]...))
		}
		return testutil.HTTPResponse(http.StatusOK, listingBody())
	})
}

func TestInitInfoList(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	cat := h.loadCatalog()
	credentials := cat.Credentials()
	if credentials.UID != "2901" || credentials.Token != "secret-token" || credentials.DirID != "" {
		t.Errorf("credentials = %+v, want uid 2901 and the trimmed token", credentials)
	}
	if cat.Passkey() != (cipher.Passkey{127, 97, 112, 128}) {
		t.Errorf("passkey = %s, want 127,97,112,128", cat.Passkey())
	}

	var info catalogInfo
	if err := json.Unmarshal([]byte(h.mustRun("info", "--json")), &info); err != nil {
		t.Fatalf("decoding info: %v", err)
	}
	if info.UID != "2901" || info.Entries != 0 || info.Size != 144 {
		t.Errorf("info = %+v, want uid 2901, 0 entries, 144 bytes", info)
	}
	if info.Fingerprint != cat.Fingerprint().String() {
		t.Errorf("fingerprint = %s, want %s", info.Fingerprint, cat.Fingerprint())
	}
	if strings.Contains(h.stdout.String(), "secret-token") {
		t.Error("info output contains the token")
	}

	if output := h.mustRun("list", "--json"); strings.TrimSpace(output) != "[]" {
		t.Errorf("list --json on empty catalog = %q, want []", output)
	}
}

func TestInitRefusesExistingCatalog(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	tokenPath := h.writeFile("token2", "other")
	_, err := h.run("init", "--token-file", tokenPath)
	if cli.Categorize(err) != cli.CategoryConflict {
		t.Fatalf("second init error = %v, want conflict", err)
	}

	h.mustRun("init", "--token-file", tokenPath, "--force", "--dirid", "77")
	credentials := h.loadCatalog().Credentials()
	if credentials.Token != "other" || credentials.DirID != "77" {
		t.Errorf("credentials after --force = %+v", credentials)
	}
}

func TestInitTokenFromStdin(t *testing.T) {
	h := newHarness(t)
	h.stdin.WriteString("piped-token\n")
	h.mustRun("init", "--token-file", "-")

	if token := h.loadCatalog().Credentials().Token; token != "piped-token" {
		t.Errorf("token = %q, want %q", token, "piped-token")
	}
}

func TestCommandsRequireCatalog(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("list")
	if cli.Categorize(err) != cli.CategoryNotFound {
		t.Fatalf("list without catalog error = %v, want not found", err)
	}
	if !strings.Contains(err.Error(), "cloudfile init") {
		t.Errorf("error = %q, want a hint naming 'cloudfile init'", err.Error())
	}
}

func TestCatalogLockedByAnotherProcess(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	store, err := catalogstore.Open(filepath.Join(h.dir, "catalog.bin"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	_, err = h.run("list")
	if cli.Categorize(err) != cli.CategoryConflict {
		t.Fatalf("list with held lock error = %v, want conflict", err)
	}
	if !errors.Is(err, catalogstore.ErrLocked) {
		t.Errorf("error %v does not wrap ErrLocked", err)
	}
}

func TestScanThenLink(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()
	h.serveCatalogHost(
		[]record{{"o1", "a.txt", "r1"}, {"o2", "b.txt", "r2"}, {"o3", "c.txt", "r3"}, {"o4", "d.txt", "r4"}},
		[]record{{"o5", "e.txt", "r5"}},
	)

	output := h.mustRun("scan")
	if !strings.Contains(output, "added 5 entries (5 total)") {
		t.Errorf("scan output = %q", output)
	}

	entries := h.loadCatalog().Entries()
	if len(entries) != 5 || entries[0].ObjectID != "o1" || entries[4].Name != "e.txt" {
		t.Fatalf("entries = %+v", entries)
	}

	listed := h.mustRun("list")
	if !strings.Contains(listed, "o3") || !strings.Contains(listed, "c.txt") {
		t.Errorf("list output = %q", listed)
	}

	h.dialer.Handle(downloadAddress, func(request testutil.Request) string {
		objectID := strings.TrimPrefix(request.Target(), "/share/download/")
		if objectID == "o2" {
			return testutil.HTTPResponse(http.StatusOK, "<p>获取下载地址失败</p>")
		}
		return testutil.HTTPResponse(http.StatusOK, "var downloadUrl = 'https://dl.test/"+objectID+"';")
	})

	output, err := h.run("link", "--all", "--json")
	var exitError *cli.ExitError
	if !errors.As(err, &exitError) || exitError.Code != 1 {
		t.Fatalf("link --all error = %v, want exit code 1 for the missing object", err)
	}
	var links []resolvedLink
	if err := json.Unmarshal([]byte(output), &links); err != nil {
		t.Fatalf("decoding links: %v\n%s", err, output)
	}
	if len(links) != 5 {
		t.Fatalf("got %d links, want 5", len(links))
	}
	if links[0].URL != "https://dl.test/o1" || links[0].Name != "a.txt" {
		t.Errorf("links[0] = %+v", links[0])
	}
	if !strings.HasPrefix(links[0].Referrer, "http://sharewh") {
		t.Errorf("links[0].Referrer = %q", links[0].Referrer)
	}
	if links[1].URL != "" || links[1].Error == "" {
		t.Errorf("links[1] = %+v, want an error for the missing object", links[1])
	}
	if links[4].URL != "https://dl.test/o5" {
		t.Errorf("links[4] = %+v", links[4])
	}
}

func TestScanSavesEntriesWhenAcknowledgmentFails(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()
	h.dialer.Handle(catalogAddress, func(request testutil.Request) string {
		if strings.HasPrefix(request.Target(), "/api/delete") {
			return "" // drop the connection
		}
		return testutil.HTTPResponse(http.StatusOK, listingBody(record{"o1", "a.txt", "r1"}))
	})

	if _, err := h.run("scan"); err == nil {
		t.Fatal("scan succeeded, want the acknowledgment failure")
	}
	entries := h.loadCatalog().Entries()
	if len(entries) != 1 || entries[0].ObjectID != "o1" {
		t.Errorf("saved entries = %+v, want the listed record", entries)
	}
}

func TestScanOnce(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()
	h.serveCatalogHost(
		[]record{{"o1", "a.txt", "r1"}},
		[]record{{"o2", "b.txt", "r2"}},
	)

	h.mustRun("scan", "--once")
	if n := h.loadCatalog().Len(); n != 1 {
		t.Errorf("after --once catalog has %d entries, want 1", n)
	}
}

func TestLinkArgumentValidation(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	for _, args := range [][]string{{"link"}, {"link", "--all", "o1"}} {
		_, err := h.run(args...)
		if cli.Categorize(err) != cli.CategoryValidation {
			t.Errorf("%v error = %v, want validation", args, err)
		}
	}
}

func TestLinkRejectsUnsafeObjectIDs(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	for _, objectID := range []string{"bad id", "o1\r\nHost: other", "o\x7f1"} {
		_, err := h.run("link", "o0", objectID)
		if cli.Categorize(err) != cli.CategoryValidation {
			t.Errorf("link %q error = %v, want validation", objectID, err)
		}
	}
	if log := h.dialer.Log(); len(log) != 0 {
		t.Errorf("link sent %d requests, want none", len(log))
	}
}

func TestMerge(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	other, err := catalog.Build(catalog.Credentials{UID: "9", Token: "t"}, cipher.Passkey{1, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Append(catalog.Entry{Name: "x.bin", ObjectID: "ox"}); err != nil {
		t.Fatal(err)
	}
	otherPath := filepath.Join(h.dir, "other.bin")
	if err := os.WriteFile(otherPath, other.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}

	output := h.mustRun("merge", otherPath)
	if !strings.Contains(output, "merged 1 entries (1 total)") {
		t.Errorf("merge output = %q", output)
	}
	cat := h.loadCatalog()
	if cat.Len() != 1 || cat.Entries()[0].ObjectID != "ox" {
		t.Errorf("entries = %+v", cat.Entries())
	}
	if cat.Credentials().UID != "2901" {
		t.Errorf("merge replaced credentials: %+v", cat.Credentials())
	}
}

func TestExportImportSealed(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()
	h.serveCatalogHost([]record{{"o1", "a.txt", "r1"}, {"o2", "b.txt", "r2"}})
	h.mustRun("scan")
	original := h.loadCatalog()

	identityPath := filepath.Join(h.dir, "key.txt")
	h.mustRun("keygen", "--out", identityPath)
	publicKey := strings.TrimSpace(strings.TrimPrefix(h.stderr.String(), "Public key:"))
	if !strings.HasPrefix(publicKey, "age1") {
		t.Fatalf("keygen printed %q, want an age public key", h.stderr.String())
	}

	bundlePath := filepath.Join(h.dir, "catalog.cfb")
	h.mustRun("export", "--out", bundlePath, "--recipient", publicKey, "--compression", "lz4")

	if _, err := h.run("inspect", bundlePath); cli.Categorize(err) != cli.CategoryValidation {
		t.Errorf("inspect without identity error = %v, want validation", err)
	}
	var summary bundleSummary
	if err := json.Unmarshal([]byte(h.mustRun("inspect", bundlePath, "--identity-file", identityPath, "--json")), &summary); err != nil {
		t.Fatalf("decoding inspect output: %v", err)
	}
	if !summary.Sealed || summary.Entries != 2 || summary.Fingerprint != original.Fingerprint().String() {
		t.Errorf("summary = %+v", summary)
	}
	if summary.Diagnostic == "" {
		t.Error("summary has no diagnostic")
	}

	// Import into a fresh location installs the catalog.
	os.Remove(filepath.Join(h.dir, "catalog.bin"))
	h.mustRun("import", bundlePath, "--identity-file", identityPath)
	if restored := h.loadCatalog(); !bytes.Equal(restored.Bytes(), original.Bytes()) {
		t.Error("imported catalog differs from the exported one")
	}

	// Importing again merges.
	h.mustRun("import", bundlePath, "--identity-file", identityPath)
	if n := h.loadCatalog().Len(); n != 4 {
		t.Errorf("after merge import catalog has %d entries, want 4", n)
	}

	// --replace overwrites.
	h.mustRun("import", bundlePath, "--identity-file", identityPath, "--replace")
	if n := h.loadCatalog().Len(); n != 2 {
		t.Errorf("after --replace catalog has %d entries, want 2", n)
	}
}

func TestExportPlainToStdout(t *testing.T) {
	h := newHarness(t)
	h.initCatalog()

	output := h.mustRun("export", "--out", "-", "--plain")
	if !strings.HasPrefix(output, "CFBNDL01") {
		t.Errorf("plain bundle starts with %q, want the bundle magic", output[:min(8, len(output))])
	}

	_, err := h.run("export", "--out", "-", "--plain", "--recipient", "age1x")
	if cli.Categorize(err) != cli.CategoryValidation {
		t.Errorf("--plain with --recipient error = %v, want validation", err)
	}
}

func TestPasskeyGenerate(t *testing.T) {
	h := newHarness(t)

	output := strings.TrimSpace(h.mustRun("passkey", "generate"))
	passkey, err := cipher.ParsePasskey(output)
	if err != nil {
		t.Fatalf("generated passkey %q does not parse: %v", output, err)
	}
	if err := passkey.Validate(); err != nil {
		t.Errorf("generated passkey %s invalid: %v", passkey, err)
	}

	passphrasePath := h.writeFile("pass", "correct horse\n")
	first := h.mustRun("passkey", "generate", "--from-passphrase-file", passphrasePath, "--salt", "laptop")
	second := h.mustRun("passkey", "generate", "--from-passphrase-file", passphrasePath, "--salt", "laptop")
	if first != second {
		t.Errorf("derived passkeys differ: %q vs %q", first, second)
	}
	want, err := cipher.DerivePasskey([]byte("correct horse"), []byte("laptop"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(first) != want.String() {
		t.Errorf("derived passkey = %q, want %s", first, want)
	}

	if _, err := h.run("passkey", "generate", "--salt", "x"); cli.Categorize(err) != cli.CategoryValidation {
		t.Errorf("--salt alone error = %v, want validation", err)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	if output := h.mustRun("version"); !strings.HasPrefix(output, "cloudfile ") {
		t.Errorf("version output = %q", output)
	}
}

func TestInvalidConfig(t *testing.T) {
	h := newHarness(t)
	h.configPath = h.writeFile("bad.yaml", "network:\n  read_mode: sometimes\n")
	_, err := h.run("list")
	if cli.Categorize(err) != cli.CategoryValidation {
		t.Fatalf("bad config error = %v, want validation", err)
	}
	if !strings.Contains(err.Error(), "read_mode") {
		t.Errorf("error = %q, want it to name read_mode", err.Error())
	}
}
