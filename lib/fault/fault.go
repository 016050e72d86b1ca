// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fault

import (
	"errors"
	"fmt"
)

// Kind is a stable category for programmatic error handling.
type Kind string

const (
	// InvalidInput: container shorter than the minimum size, passkey
	// component out of range, non-positive determinant, odd-length word
	// sequence passed to decode.
	InvalidInput Kind = "invalid-input"

	// Unsupported: container magic mismatch or malformed passkey slice.
	Unsupported Kind = "unsupported"

	// InvalidData: malformed base-region credential split or list-region
	// entry.
	InvalidData Kind = "invalid-data"

	// NotConnected: an operation needing a connection was attempted
	// while disconnected, or while connected to the wrong host.
	NotConnected Kind = "not-connected"

	// RemoteParse: the server response is missing an expected field or
	// delimiter.
	RemoteParse Kind = "remote-parse"

	// PermissionDenied: the server explicitly reported failure.
	PermissionDenied Kind = "permission-denied"

	// NotFound: download link resolution reported absence.
	NotFound Kind = "not-found"

	// UnexpectedEOF: malformed or empty response framing.
	UnexpectedEOF Kind = "unexpected-eof"

	// Exhausted: a scan round added nothing. This is the normal
	// terminal signal of repeated scanning, not a fault.
	Exhausted Kind = "exhausted"
)

// Error is the structured error type returned by cloudfile packages.
type Error struct {
	// Kind is the stable category. Branch on this, not on Message.
	Kind Kind

	// Op names the operation that failed (e.g. "container.Parse",
	// "session.Scan").
	Op string

	// Message is a human-readable description.
	Message string

	// Body is the raw server response text for remote failures. Empty
	// for local failures.
	Body string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	message := e.Message
	if e.Op != "" {
		message = e.Op + ": " + message
	}
	if e.Body != "" {
		message += ": " + e.Body
	}
	if e.Cause != nil {
		message += ": " + e.Cause.Error()
	}
	return message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *Error by Kind alone, so sentinel values such as
// session.ErrDrained work with errors.Is.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) || other == nil || e == nil {
		return false
	}
	return other.Op == "" && other.Message == "" && other.Kind == e.Kind
}

// New returns an *Error of the given kind.
func New(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error of the given kind wrapping cause.
func Wrap(kind Kind, op string, cause error, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Remote returns an *Error carrying the raw server body.
func Remote(kind Kind, op, message, body string) error {
	return &Error{Kind: kind, Op: op, Message: message, Body: body}
}

// Sentinel returns a bare *Error for use with errors.Is. It matches any
// *Error of the same kind.
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}

// IsKind reports whether err is (or wraps) an *Error with the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// Body returns the raw server body carried by err, or "".
func Body(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Body
}
