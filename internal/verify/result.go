// SPDX-License-Identifier: MPL-2.0

// Package verify implements the toolchain verification suite: a fixed
// ordered list of requirement checks run against the locally installed
// SDK, aggregated into a pass/fail report.
package verify

import "time"

// Status is the outcome of a single check.
type Status string

const (
	StatusPass Status = "Pass"
	StatusFail Status = "Fail"
)

// Severity classifies a failed check. Passing checks carry SeverityNone.
type Severity string

const (
	SeverityNone    Severity = "None"
	SeverityWarning Severity = "Warning"
	SeverityError   Severity = "Error"
)

// Result is the immutable record produced by one requirement check.
type Result struct {
	// Name is the check label
	Name string `json:"name"`
	// Status is Pass or Fail
	Status Status `json:"status"`
	// Expected describes the success condition
	Expected string `json:"expected"`
	// Actual describes what was observed, or the failure reason
	Actual string `json:"actual"`
	// Severity is set only on failure (None on pass)
	Severity Severity `json:"severity"`
}

// Passed reports whether the check passed.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Report aggregates an ordered sequence of check results.
type Report struct {
	Timestamp   time.Time `json:"timestamp"`
	Checks      []Result  `json:"checks"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Warnings    int       `json:"warnings"`
	TotalChecks int       `json:"totalChecks"`
}

// NewReport computes the aggregate counts for the given ordered results.
// Passed + Failed always equals TotalChecks; Warnings counts results that
// failed with Warning severity and is not part of that sum.
func NewReport(results []Result, timestamp time.Time) Report {
	report := Report{
		Timestamp:   timestamp,
		Checks:      results,
		TotalChecks: len(results),
	}

	for _, r := range results {
		if r.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		if r.Severity == SeverityWarning {
			report.Warnings++
		}
	}

	return report
}
