// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/salfa/cloudfile/lib/fault"
)

// ErrorCategory classifies command errors so main can choose an exit
// status without parsing message text.
type ErrorCategory string

const (
	// CategoryValidation: bad flags, wrong argument count, unparseable
	// values. Fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced object or file does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: the remote refused the request (expired token,
	// wrong account).
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryConflict: another process holds the catalog.
	CategoryConflict ErrorCategory = "conflict"

	// CategoryTransient: network failure or timeout. Retrying may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: anything else, including corrupt local data.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps an
// inner error, preserving the chain for errors.Is and errors.As.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional remediation line printed after the error.
	Hint string
}

// Error returns the underlying message followed by the hint, if any.
func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *ToolError) Unwrap() error { return e.Err }

// WithHint sets the remediation hint and returns the receiver.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Conflict creates a conflict error.
func Conflict(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryConflict, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize returns the category of err. An explicit [ToolError] wins;
// otherwise the [fault.Kind] of a library error is mapped, and anything
// else is internal.
func Categorize(err error) ErrorCategory {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}

	var netError interface{ Timeout() bool }
	if errors.As(err, &netError) {
		return CategoryTransient
	}

	switch fault.KindOf(err) {
	case fault.InvalidInput, fault.Unsupported:
		return CategoryValidation
	case fault.NotFound:
		return CategoryNotFound
	case fault.PermissionDenied:
		return CategoryForbidden
	case fault.UnexpectedEOF, fault.RemoteParse:
		return CategoryTransient
	default:
		return CategoryInternal
	}
}

// ExitCodeFor maps err to a process exit status: 2 for validation
// errors, 1 for everything else. A [ExitError] keeps its own code.
func ExitCodeFor(err error) int {
	var exitCoder interface{ ExitCode() int }
	if errors.As(err, &exitCoder) {
		return exitCoder.ExitCode()
	}
	if Categorize(err) == CategoryValidation {
		return 2
	}
	return 1
}
