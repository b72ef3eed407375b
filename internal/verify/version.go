// SPDX-License-Identifier: MPL-2.0

package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// versionPrefixPattern matches the leading dotted numeric version of a
// CLI version string (e.g., "8.0.204", "9.0.100-preview.5"). Anything
// after major.minor[.patch] is ignored for threshold comparison.
var versionPrefixPattern = regexp.MustCompile(`^v?(\d+\.\d+(\.\d+)?)`)

// normalizeVersion extracts the leading major.minor[.patch] prefix and
// returns it in the canonical "v"-prefixed form the semver package
// expects. Components are re-rendered as plain integers because semver
// rejects leading zeros ("6.02" must compare as 6.2, not as invalid).
// The second return is false when the string has no such prefix.
func normalizeVersion(s string) (string, bool) {
	m := versionPrefixPattern.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	parts := strings.Split(m[1], ".")
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return "", false
		}
		parts[i] = strconv.Itoa(n)
	}
	return "v" + strings.Join(parts, "."), true
}

// VersionAtLeast reports whether the installed version satisfies the
// configured minimum under numeric major.minor(.patch) ordering, not
// string comparison ("10.0" satisfies "6.0").
//
// An installed string without a leading digits.digits prefix yields
// (false, nil): a failed check, not an error. A malformed minimum is a
// configuration mistake and is reported as an error.
func VersionAtLeast(installed, minimum string) (bool, error) {
	minNorm, ok := normalizeVersion(minimum)
	if !ok {
		return false, fmt.Errorf("invalid minimum version %q: want major.minor", minimum)
	}

	inst, ok := normalizeVersion(installed)
	if !ok {
		return false, nil
	}

	return semver.Compare(inst, minNorm) >= 0, nil
}
