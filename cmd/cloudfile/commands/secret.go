// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
)

// readSecret reads a token or passphrase. A path of "-" reads from
// stdin, prompting with echo disabled when stdin is a terminal.
// Secrets are never accepted as flag values.
func readSecret(env *environment, path, prompt string) ([]byte, error) {
	var data []byte
	switch path {
	case "":
		return nil, cli.Validation("no %s file given", prompt)
	case "-":
		if file, ok := env.stdin.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			fmt.Fprintf(env.stderr, "%s: ", prompt)
			entered, err := term.ReadPassword(int(file.Fd()))
			fmt.Fprintln(env.stderr)
			if err != nil {
				return nil, cli.Internal("reading %s: %w", prompt, err)
			}
			data = entered
		} else {
			read, err := io.ReadAll(env.stdin)
			if err != nil {
				return nil, cli.Internal("reading %s from stdin: %w", prompt, err)
			}
			data = read
		}
	default:
		read, err := os.ReadFile(path)
		if err != nil {
			return nil, cli.Internal("reading %s: %w", path, err)
		}
		data = read
	}

	// Files and pipes usually end with a newline.
	data = bytes.TrimRight(data, "\r\n")
	if len(data) == 0 {
		return nil, cli.Validation("%s is empty", prompt)
	}
	return data, nil
}
