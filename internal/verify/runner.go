// SPDX-License-Identifier: MPL-2.0

package verify

type (
	// Probe determines a check's outcome. It returns true when the
	// requirement is satisfied, false when it is cleanly unmet, and an
	// error only for unexpected failures (tool not startable, I/O error).
	Probe func() (bool, error)

	// CheckOption configures a check before it runs.
	CheckOption func(*checkSettings)

	checkSettings struct {
		failSeverity Severity
	}
)

// WithFailureSeverity overrides the severity recorded when the check
// fails. The default is SeverityError.
func WithFailureSeverity(sev Severity) CheckOption {
	return func(s *checkSettings) {
		s.failSeverity = sev
	}
}

// RunCheck executes a probe and wraps its outcome into a Result. This is
// the uniform shape shared by all checks regardless of what the probe
// does underneath: a probe error always yields a failed Result with the
// error text as the actual value, and is never propagated to the caller.
//
// On pass, Actual repeats the expected description (the condition was
// observed to hold); on clean failure it carries the failure description.
func RunCheck(name string, probe Probe, expected, failure string, opts ...CheckOption) Result {
	settings := checkSettings{failSeverity: SeverityError}
	for _, opt := range opts {
		opt(&settings)
	}

	ok, err := probe()
	if err != nil {
		return Result{
			Name:     name,
			Status:   StatusFail,
			Expected: expected,
			Actual:   err.Error(),
			Severity: settings.failSeverity,
		}
	}

	if !ok {
		return Result{
			Name:     name,
			Status:   StatusFail,
			Expected: expected,
			Actual:   failure,
			Severity: settings.failSeverity,
		}
	}

	return Result{
		Name:     name,
		Status:   StatusPass,
		Expected: expected,
		Actual:   expected,
		Severity: SeverityNone,
	}
}
