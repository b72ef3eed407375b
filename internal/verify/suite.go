// SPDX-License-Identifier: MPL-2.0

package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sdkops/internal/sdk"
)

const (
	// scaffoldDirName is the directory name of the throwaway project
	// scaffolded inside the suite's temp working directory.
	scaffoldDirName = "verify-app"
	// scaffoldProjectFile is the project file the scaffold check must
	// produce. The restore and build checks are gated on its existence.
	scaffoldProjectFile = scaffoldDirName + ".csproj"
	// scaffoldTemplate is the project template used for the smoke test.
	scaffoldTemplate = "console"
)

type (
	// SuiteOption configures a Suite.
	SuiteOption func(*Suite)

	// Suite runs the fixed ordered list of environment-verification
	// checks against an installed SDK. Checks run strictly sequentially:
	// the restore and build checks read the project scaffolded by an
	// earlier check, so order is part of the contract.
	Suite struct {
		cli        *sdk.CLI
		minVersion string
		logger     *log.Logger
	}
)

// WithLogger sets the logger used for per-check diagnostics.
func WithLogger(logger *log.Logger) SuiteOption {
	return func(s *Suite) {
		s.logger = logger
	}
}

// NewSuite creates a Suite verifying the given SDK CLI against the given
// minimum version.
func NewSuite(cli *sdk.CLI, minVersion string, opts ...SuiteOption) *Suite {
	s := &Suite{
		cli:        cli,
		minVersion: minVersion,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes all checks in order and aggregates their results. The
// shared temp working directory is created up front and removed
// best-effort at the end regardless of check outcomes. Individual check
// failures are recorded, never fatal.
func (s *Suite) Run(ctx context.Context) Report {
	workDir, workDirErr := os.MkdirTemp("", "sdkops-verify-")
	if workDirErr != nil {
		// Without a work directory the scaffold chain cannot run; the
		// directory-independent checks still do.
		s.logger.Warn("could not create temp working directory", "err", workDirErr)
		workDir = ""
	}
	if workDir != "" {
		defer os.RemoveAll(workDir) // best-effort cleanup
	}

	projectDir := filepath.Join(workDir, scaffoldDirName)
	projectFile := filepath.Join(projectDir, scaffoldProjectFile)

	var results []Result
	record := func(r Result) {
		s.logger.Debug("check finished", "name", r.Name, "status", r.Status, "actual", r.Actual)
		results = append(results, r)
	}

	record(RunCheck("SDK CLI installed",
		func() (bool, error) { return s.cli.Available(), nil },
		"'"+s.cli.Binary()+"' is on PATH",
		"'"+s.cli.Binary()+"' not found in PATH",
	))

	record(s.versionCheck(ctx))

	record(RunCheck("SDK info",
		s.exitZeroProbe(func() (sdk.CmdResult, error) { return s.cli.Info(ctx) }),
		"--info exits successfully",
		"--info reported an error",
	))

	record(RunCheck("Installed SDKs listed",
		s.nonEmptyListProbe(func() (sdk.CmdResult, error) { return s.cli.ListSDKs(ctx) }),
		"--list-sdks reports at least one SDK",
		"no SDKs reported",
		WithFailureSeverity(SeverityWarning),
	))

	record(RunCheck("Installed runtimes listed",
		s.nonEmptyListProbe(func() (sdk.CmdResult, error) { return s.cli.ListRuntimes(ctx) }),
		"--list-runtimes reports at least one runtime",
		"no runtimes reported",
		WithFailureSeverity(SeverityWarning),
	))

	record(RunCheck("Scaffold test project",
		func() (bool, error) {
			if workDir == "" {
				return false, fmt.Errorf("no working directory: %w", workDirErr)
			}
			res, err := s.cli.NewProject(ctx, scaffoldTemplate, projectDir)
			if err != nil {
				return false, err
			}
			return res.ExitCode == 0 && fileExists(projectFile), nil
		},
		"'new "+scaffoldTemplate+"' produces "+scaffoldProjectFile,
		"project file was not created",
	))

	record(RunCheck("Restore dependencies",
		s.gatedProjectProbe(projectFile, func() (sdk.CmdResult, error) { return s.cli.Restore(ctx, projectDir) }),
		"'restore' exits successfully",
		"restore failed or project file missing",
	))

	record(RunCheck("Build test project",
		s.gatedProjectProbe(projectFile, func() (sdk.CmdResult, error) { return s.cli.Build(ctx, projectDir) }),
		"'build' exits successfully",
		"build failed or project file missing",
	))

	return NewReport(results, time.Now().UTC())
}

// versionCheck compares the installed SDK version against the minimum.
func (s *Suite) versionCheck(ctx context.Context) Result {
	expected := "version >= " + s.minVersion
	installed := "unknown"

	result := RunCheck("SDK version",
		func() (bool, error) {
			v, err := s.cli.Version(ctx)
			if err != nil {
				return false, err
			}
			installed = v
			return VersionAtLeast(v, s.minVersion)
		},
		expected,
		"installed version below minimum",
	)

	// Surface the observed version in both outcomes.
	if result.Status == StatusPass {
		result.Actual = "installed version " + installed
	} else if result.Actual == "installed version below minimum" {
		result.Actual = "installed version " + installed + ", want >= " + s.minVersion
	}
	return result
}

// exitZeroProbe wraps an SDK CLI invocation into a probe that passes on
// a zero exit code.
func (s *Suite) exitZeroProbe(invoke func() (sdk.CmdResult, error)) Probe {
	return func() (bool, error) {
		res, err := invoke()
		if err != nil {
			return false, err
		}
		return res.ExitCode == 0, nil
	}
}

// nonEmptyListProbe wraps a listing invocation into a probe that passes
// on a zero exit code with non-empty output.
func (s *Suite) nonEmptyListProbe(invoke func() (sdk.CmdResult, error)) Probe {
	return func() (bool, error) {
		res, err := invoke()
		if err != nil {
			return false, err
		}
		return res.ExitCode == 0 && strings.TrimSpace(res.Output) != "", nil
	}
}

// gatedProjectProbe wraps an invocation that depends on the scaffolded
// project: when the project file is absent the probe fails without
// invoking the underlying tool.
func (s *Suite) gatedProjectProbe(projectFile string, invoke func() (sdk.CmdResult, error)) Probe {
	return func() (bool, error) {
		if !fileExists(projectFile) {
			return false, nil
		}
		res, err := invoke()
		if err != nil {
			return false, err
		}
		return res.ExitCode == 0, nil
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
