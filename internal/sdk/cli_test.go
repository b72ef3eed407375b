// SPDX-License-Identifier: MPL-2.0

package sdk

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

// mockRecorder captures SDK CLI invocations using the TestHelperProcess pattern.
type mockRecorder struct {
	Invocations [][]string
	ExitCode    int
	Stdout      string
}

func (m *mockRecorder) commandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		m.Invocations = append(m.Invocations, append([]string{name}, args...))

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", m.ExitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", m.Stdout),
		}
		return cmd
	}
}

// newMockCLI creates a CLI wired to a fresh recorder with a fake binary path.
func newMockCLI(t *testing.T, recorder *mockRecorder) *CLI {
	t.Helper()
	return NewCLI(DefaultBinary,
		WithBinaryPath("/usr/bin/dotnet"),
		WithExecCommand(recorder.commandFunc(t)),
	)
}

// TestHelperProcess simulates SDK CLI execution for the mock recorder.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}

	os.Exit(exitCode)
}

func TestCLI_Available(t *testing.T) {
	t.Parallel()

	present := NewCLI(DefaultBinary, WithBinaryPath("/usr/bin/dotnet"))
	if !present.Available() {
		t.Error("Available() = false with resolved binary path")
	}

	missing := NewCLI(DefaultBinary, WithBinaryPath(""))
	if missing.Available() {
		t.Error("Available() = true with empty binary path")
	}
}

func TestCLI_DefaultBinary(t *testing.T) {
	t.Parallel()

	if got := NewCLI("").Binary(); got != DefaultBinary {
		t.Errorf("Binary() = %q, want %q", got, DefaultBinary)
	}
}

func TestCLI_Version(t *testing.T) {
	t.Parallel()

	recorder := &mockRecorder{Stdout: "8.0.204\n"}
	cli := newMockCLI(t, recorder)

	version, err := cli.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if version != "8.0.204" {
		t.Errorf("Version() = %q, want trimmed %q", version, "8.0.204")
	}
	if len(recorder.Invocations) != 1 || !slices.Contains(recorder.Invocations[0], "--version") {
		t.Errorf("unexpected invocations: %v", recorder.Invocations)
	}
}

func TestCLI_Version_NonZeroExit(t *testing.T) {
	t.Parallel()

	recorder := &mockRecorder{ExitCode: 2}
	cli := newMockCLI(t, recorder)

	if _, err := cli.Version(context.Background()); err == nil {
		t.Fatal("Version() should report an error on non-zero exit")
	}
}

func TestCLI_SubcommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		invoke   func(cli *CLI) (CmdResult, error)
		expected []string
	}{
		{
			name:     "info",
			invoke:   func(cli *CLI) (CmdResult, error) { return cli.Info(context.Background()) },
			expected: []string{"--info"},
		},
		{
			name:     "list sdks",
			invoke:   func(cli *CLI) (CmdResult, error) { return cli.ListSDKs(context.Background()) },
			expected: []string{"--list-sdks"},
		},
		{
			name:     "list runtimes",
			invoke:   func(cli *CLI) (CmdResult, error) { return cli.ListRuntimes(context.Background()) },
			expected: []string{"--list-runtimes"},
		},
		{
			name: "new project",
			invoke: func(cli *CLI) (CmdResult, error) {
				return cli.NewProject(context.Background(), "console", "/tmp/app")
			},
			expected: []string{"new", "console", "-o", "/tmp/app"},
		},
		{
			name:     "restore",
			invoke:   func(cli *CLI) (CmdResult, error) { return cli.Restore(context.Background(), t.TempDir()) },
			expected: []string{"restore"},
		},
		{
			name:     "build",
			invoke:   func(cli *CLI) (CmdResult, error) { return cli.Build(context.Background(), t.TempDir()) },
			expected: []string{"build"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recorder := &mockRecorder{}
			cli := newMockCLI(t, recorder)

			res, err := tt.invoke(cli)
			if err != nil {
				t.Fatalf("invoke error: %v", err)
			}
			if res.ExitCode != 0 {
				t.Errorf("ExitCode = %d, want 0", res.ExitCode)
			}
			if len(recorder.Invocations) != 1 {
				t.Fatalf("expected 1 invocation, got %d", len(recorder.Invocations))
			}
			got := recorder.Invocations[0][1:]
			if !slices.Equal(got, tt.expected) {
				t.Errorf("args = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLI_NonZeroExitCaptured(t *testing.T) {
	t.Parallel()

	recorder := &mockRecorder{ExitCode: 1, Stdout: "error MSB1003"}
	cli := newMockCLI(t, recorder)

	res, err := cli.Build(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("non-zero exit must not surface as error, got: %v", err)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if !strings.Contains(res.Output, "MSB1003") {
		t.Errorf("Output = %q, want captured tool output", res.Output)
	}
}

func TestCLI_MissingBinary(t *testing.T) {
	t.Parallel()

	cli := NewCLI(DefaultBinary, WithBinaryPath(""))

	if _, err := cli.Info(context.Background()); err == nil {
		t.Fatal("Info() should fail when the binary is not on PATH")
	}
}
