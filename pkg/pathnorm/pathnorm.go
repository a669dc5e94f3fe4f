// Package pathnorm provides the single canonical form used for every path
// comparison in the pipeline: resolver substring matching, the orphan
// known-file set, and system-file checks all agree on it.
package pathnorm

import (
	"path/filepath"
	"strings"
)

// Canon returns the canonical comparison form of a path: cleaned, forward
// slashes, lowercase. Not suitable for filesystem access, only comparison.
func Canon(p string) string {
	if p == "" {
		return ""
	}
	c := filepath.ToSlash(filepath.Clean(strings.ReplaceAll(p, "\\", "/")))
	return strings.ToLower(c)
}

// Contains reports whether needle occurs inside haystack after both are
// canonicalized. Empty needles never match.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(Canon(haystack), Canon(needle))
}

// Equal reports whether two paths are the same under canonicalization.
func Equal(a, b string) bool {
	return Canon(a) == Canon(b)
}

// CanonSet builds a set of canonical paths from a slice.
func CanonSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		set[Canon(p)] = struct{}{}
	}
	return set
}

// InSet reports whether path is present in a canonical set built by CanonSet.
func InSet(set map[string]struct{}, p string) bool {
	_, ok := set[Canon(p)]
	return ok
}
