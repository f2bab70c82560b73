// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"regexp"
	"strings"
)

var (
	numericVersionRe = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:\.(\d+))?(?:[.-]?(.+))?$`)
	branchVersionRe  = regexp.MustCompile(`^v?(\d+)(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?-dev$`)
)

// defaultBranches are the branch names that normalize to DevVersion.
var defaultBranches = map[string]bool{
	"master":  true,
	"main":    true,
	"trunk":   true,
	"default": true,
}

// NormalizeVersion converts a pretty version the way Composer records it in
// version_normalized. It is only used when the host did not record a
// normalized version itself.
//
//	dev-main    -> 9999999-dev
//	dev-feature -> dev-feature
//	v1.2        -> 1.2.0.0
//	2.0.0-beta1 -> 2.0.0.0-beta1
//	1.0.0-dev   -> 1.0.0.0-dev
//	1.x-dev     -> 1.9999999.9999999.9999999-dev
func NormalizeVersion(pretty string) string {
	v := strings.TrimSpace(pretty)
	if branch, ok := strings.CutPrefix(v, "dev-"); ok {
		if defaultBranches[branch] {
			return DevVersion
		}
		return v
	}

	if m := branchVersionRe.FindStringSubmatch(v); m != nil && strings.ContainsAny(v, "xX*") {
		parts := make([]string, 4)
		for i := range parts {
			p := m[i+1]
			if p == "" || p == "x" || p == "X" || p == "*" {
				p = "9999999"
			}
			parts[i] = p
		}
		return strings.Join(parts, ".") + "-dev"
	}

	if m := numericVersionRe.FindStringSubmatch(v); m != nil {
		parts := make([]string, 4)
		for i := range parts {
			if parts[i] = m[i+1]; parts[i] == "" {
				parts[i] = "0"
			}
		}
		out := strings.Join(parts, ".")
		if suffix := m[5]; suffix != "" {
			out += "-" + suffix
		}
		return out
	}

	return v
}
