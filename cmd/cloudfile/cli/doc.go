// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the cloudfile CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a parameter struct whose tags
// define its flags ([Command.Params], bound by [BindFlags]), and a Run
// function receiving a context and a logger. Commands are assembled into
// a tree in cmd/cloudfile/commands and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Parameter structs embed [JSONOutput] for --json and [Verbosity] for
// --verbose. Errors returned by commands are classified by [Categorize]
// into [ErrorCategory] values, which main maps to an exit status with
// [ExitCodeFor].
package cli
