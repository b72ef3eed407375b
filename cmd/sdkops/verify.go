// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"sdkops/internal/sdk"
	"sdkops/internal/verify"
)

var (
	verifyMinVersion    string
	verifyExitOnFailure bool
	verifyJSON          bool

	// verifyCmd runs the environment-verification suite
	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Verify the installed SDK toolchain",
		Long: `Run a fixed sequence of environment-verification checks against the
locally installed SDK CLI: tool presence, version threshold, info and
listing commands, and a scaffold/restore/build smoke test in a
throwaway temp directory.

Failed checks are recorded and reported; they never abort the run.`,
		RunE: runVerify,
	}
)

func init() {
	verifyCmd.Flags().StringVarP(&verifyMinVersion, "minimum-version", "m", "", "minimum SDK version required (default from config, \"6.0\")")
	verifyCmd.Flags().BoolVarP(&verifyExitOnFailure, "exit-on-failure", "e", false, "exit with code 1 if any check fails")
	verifyCmd.Flags().BoolVarP(&verifyJSON, "json", "j", false, "emit a machine-parseable JSON report instead of human output")
}

func runVerify(cmd *cobra.Command, args []string) error {
	conf := loadedConfig()

	minVersion := conf.MinimumVersion
	if cmd.Flags().Changed("minimum-version") {
		minVersion = verifyMinVersion
	}

	cli := sdk.NewCLI(conf.SDKBinary)
	suite := verify.NewSuite(cli, minVersion, verify.WithLogger(newLogger()))

	report := suite.Run(cmd.Context())

	out := cmd.OutOrStdout()
	if verifyJSON {
		if err := writeJSONReport(out, report); err != nil {
			return err
		}
	} else {
		renderReport(out, report)
	}

	if verifyExitOnFailure && report.Failed > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: 1}
	}

	return nil
}

// writeJSONReport emits the report as a single JSON document.
func writeJSONReport(w io.Writer, report verify.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// renderReport prints the human-readable report: one line per check
// followed by a summary block.
func renderReport(w io.Writer, report verify.Report) {
	fmt.Fprintln(w, TitleStyle.Render("Toolchain Verification"))
	fmt.Fprintln(w)

	for _, check := range report.Checks {
		marker := SuccessStyle.Render("✓")
		if !check.Passed() {
			if check.Severity == verify.SeverityWarning {
				marker = WarningStyle.Render("!")
			} else {
				marker = ErrorStyle.Render("✗")
			}
		}
		fmt.Fprintf(w, "%s %s %s\n", marker, check.Name, SubtitleStyle.Render("("+check.Actual+")"))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %d passed, %d failed, %d warning(s), %d total\n",
		SubtitleStyle.Render("Summary:"),
		report.Passed, report.Failed, report.Warnings, report.TotalChecks)

	if report.Failed == 0 {
		fmt.Fprintln(w, SuccessStyle.Render("Environment looks good."))
	} else {
		fmt.Fprintln(w, ErrorStyle.Render("Environment has problems."))
	}
}
