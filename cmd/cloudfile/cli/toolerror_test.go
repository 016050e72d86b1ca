// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/salfa/cloudfile/lib/fault"
)

func TestToolError_Hint(t *testing.T) {
	err := Validation("missing argument")
	if err.Error() != "missing argument" {
		t.Errorf("Error() = %q, want %q", err.Error(), "missing argument")
	}

	chained := err.WithHint("Run 'cloudfile init' first.")
	if chained != err {
		t.Error("WithHint should return the same pointer")
	}
	want := "missing argument\n\nRun 'cloudfile init' first."
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestToolError_Unwrap(t *testing.T) {
	err := Internal("reading catalog: %w", os.ErrNotExist)
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see through ToolError")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string { return "i/o timeout" }
func (timeoutError) Timeout() bool { return true }

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"tool error", Conflict("locked"), CategoryConflict},
		{"wrapped tool error", fmt.Errorf("outer: %w", NotFound("x")), CategoryNotFound},
		{"invalid input", fault.New(fault.InvalidInput, "op", "bad"), CategoryValidation},
		{"unsupported", fault.New(fault.Unsupported, "op", "bad magic"), CategoryValidation},
		{"not found", fault.New(fault.NotFound, "op", "gone"), CategoryNotFound},
		{"permission", fault.New(fault.PermissionDenied, "op", "refused"), CategoryForbidden},
		{"remote parse", fault.New(fault.RemoteParse, "op", "garbled"), CategoryTransient},
		{"timeout", fmt.Errorf("reading: %w", timeoutError{}), CategoryTransient},
		{"invalid data", fault.New(fault.InvalidData, "op", "corrupt"), CategoryInternal},
		{"plain", errors.New("boom"), CategoryInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Categorize(test.err); got != test.want {
				t.Errorf("Categorize() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestExitCodeFor(t *testing.T) {
	if got := ExitCodeFor(Validation("bad")); got != 2 {
		t.Errorf("ExitCodeFor(validation) = %d, want 2", got)
	}
	if got := ExitCodeFor(errors.New("boom")); got != 1 {
		t.Errorf("ExitCodeFor(plain) = %d, want 1", got)
	}
	if got := ExitCodeFor(fmt.Errorf("wrapped: %w", &ExitError{Code: 3})); got != 3 {
		t.Errorf("ExitCodeFor(ExitError) = %d, want 3", got)
	}
}
