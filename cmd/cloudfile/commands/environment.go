// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"crypto/rand"
	"io"
	"os"

	"github.com/salfa/cloudfile/lib/session"
)

// environment is what commands read from and write to outside the
// catalog file. Tests substitute buffers and a scripted dialer.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// dialer overrides the session's network dialer. Nil dials for
	// real.
	dialer session.Dialer

	// random feeds passkey generation.
	random io.Reader
}

func processEnvironment() *environment {
	return &environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		random: rand.Reader,
	}
}
