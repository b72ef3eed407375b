// SPDX-License-Identifier: MPL-2.0

// Package sdk wraps the SDK command-line tool (dotnet by default) behind
// explicit subprocess invocations returning exit codes and captured output.
package sdk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is the SDK CLI binary probed when none is configured.
const DefaultBinary = "dotnet"

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a CLI.
	Option func(*CLI)

	// CLI invokes the SDK command-line tool. The zero exit code / non-zero
	// exit code distinction is reported through CmdResult, not through the
	// error return: errors are reserved for infrastructure failures such
	// as the binary not being found or not being startable.
	CLI struct {
		binary      string // Binary name as configured (e.g., "dotnet")
		binaryPath  string // Resolved at construction via exec.LookPath
		execCommand ExecCommandFunc
	}

	// CmdResult contains the outcome of one SDK CLI invocation.
	CmdResult struct {
		// ExitCode is the process exit code (0 = success)
		ExitCode int
		// Output is the combined stdout/stderr output
		Output string
	}
)

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(c *CLI) {
		c.execCommand = fn
	}
}

// WithBinaryPath overrides the resolved binary path. Used in tests to
// simulate a missing or present SDK installation.
func WithBinaryPath(path string) Option {
	return func(c *CLI) {
		c.binaryPath = path
	}
}

// NewCLI creates a CLI for the given binary name. An empty name selects
// DefaultBinary. The binary is resolved against PATH at construction;
// resolution failure is not an error here — Available() reports it.
func NewCLI(binary string, opts ...Option) *CLI {
	if binary == "" {
		binary = DefaultBinary
	}
	path, _ := exec.LookPath(binary)
	c := &CLI{
		binary:      binary,
		binaryPath:  path,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Binary returns the configured binary name.
func (c *CLI) Binary() string {
	return c.binary
}

// BinaryPath returns the resolved path to the SDK CLI binary, or "" when
// the binary was not found on PATH.
func (c *CLI) BinaryPath() string {
	return c.binaryPath
}

// Available reports whether the SDK CLI binary was found on PATH.
func (c *CLI) Available() bool {
	return c.binaryPath != ""
}

// Version returns the installed SDK version string (output of --version,
// trimmed).
func (c *CLI) Version(ctx context.Context) (string, error) {
	res, err := c.run(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("%s --version exited with code %d", c.binary, res.ExitCode)
	}
	return strings.TrimSpace(res.Output), nil
}

// Info runs the SDK info command (--info).
func (c *CLI) Info(ctx context.Context) (CmdResult, error) {
	return c.run(ctx, "", "--info")
}

// ListSDKs lists the installed SDKs (--list-sdks).
func (c *CLI) ListSDKs(ctx context.Context) (CmdResult, error) {
	return c.run(ctx, "", "--list-sdks")
}

// ListRuntimes lists the installed runtimes (--list-runtimes).
func (c *CLI) ListRuntimes(ctx context.Context) (CmdResult, error) {
	return c.run(ctx, "", "--list-runtimes")
}

// NewProject scaffolds a new project from the given template into dir.
func (c *CLI) NewProject(ctx context.Context, template, dir string) (CmdResult, error) {
	return c.run(ctx, "", "new", template, "-o", dir)
}

// Restore restores the dependencies of the project in projectDir.
func (c *CLI) Restore(ctx context.Context, projectDir string) (CmdResult, error) {
	return c.run(ctx, projectDir, "restore")
}

// Build builds the project in projectDir.
func (c *CLI) Build(ctx context.Context, projectDir string) (CmdResult, error) {
	return c.run(ctx, projectDir, "build")
}

// run executes the SDK CLI with the given arguments, capturing combined
// output. A non-zero exit code is captured in CmdResult.ExitCode, not
// returned as an error.
func (c *CLI) run(ctx context.Context, dir string, args ...string) (CmdResult, error) {
	if c.binaryPath == "" {
		return CmdResult{}, fmt.Errorf("SDK CLI '%s' not found in PATH", c.binary)
	}

	cmd := c.execCommand(ctx, c.binaryPath, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()

	result := CmdResult{Output: out.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			return result, fmt.Errorf("command %s %v failed: %w", c.binary, args, err)
		}
	}

	return result, nil
}
