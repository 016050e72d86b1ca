// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/salfa/cloudfile/cmd/cloudfile/cli"
	"github.com/salfa/cloudfile/cmd/cloudfile/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like link with partial
		// failures) return an ExitError. Don't print a redundant
		// "error:" line for those.
		var exitError *cli.ExitError
		if !errors.As(err, &exitError) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(cli.ExitCodeFor(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
