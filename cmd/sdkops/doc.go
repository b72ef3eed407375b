// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for sdkops.
//
// This package implements the Cobra command hierarchy for the sdkops CLI:
// the root command, the toolchain image builder, the environment
// verifier, and configuration utilities.
package cmd
