// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "build toolchain image"},
			expected: "failed to build toolchain image",
		},
		{
			name: "operation and resource",
			err: &ActionableError{
				Operation: "push image",
				Resource:  "registry.example.com/sdkops/toolchain:latest",
			},
			expected: "failed to push image: registry.example.com/sdkops/toolchain:latest",
		},
		{
			name: "operation, resource, and cause",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "/home/u/.config/sdkops/config.toml",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to load configuration: /home/u/.config/sdkops/config.toml: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("exit status 125")
	err := WrapWithOperation(cause, "tag image")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestWrapWithOperation_NilError(t *testing.T) {
	t.Parallel()

	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil, ...) = %v, want nil", got)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("build toolchain image").
		WithResource("./Dockerfile").
		WithSuggestion("Check Dockerfile syntax for errors").
		WithSuggestion("Verify the build context path exists").
		Wrap(errors.New("exit status 1")).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if err.Operation != "build toolchain image" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "./Dockerfile" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if len(err.Suggestions) != 2 {
		t.Errorf("len(Suggestions) = %d, want 2", len(err.Suggestions))
	}
	if !err.HasSuggestions() {
		t.Error("HasSuggestions() = false, want true")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if got := NewErrorContext().WithResource("x").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection refused")
	err := NewErrorContext().
		WithOperation("push image").
		WithSuggestion("Check registry credentials").
		Wrap(fmt.Errorf("docker push failed: %w", inner)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "failed to push image") {
		t.Errorf("Format(false) missing message: %q", plain)
	}
	if !strings.Contains(plain, "• Check registry credentials") {
		t.Errorf("Format(false) missing suggestion: %q", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain: %q", plain)
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") {
		t.Errorf("Format(true) missing error chain: %q", verbose)
	}
	if !strings.Contains(verbose, "connection refused") {
		t.Errorf("Format(true) missing innermost cause: %q", verbose)
	}
}
