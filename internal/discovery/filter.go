package discovery

import (
	"path/filepath"
	"strings"
)

// HasWildcard reports whether pattern uses * or ? wildcards
func HasWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?")
}

// MatchName reports whether a class name matches pattern.
// Without wildcards the match is exact. With wildcards, filepath.Match is tried first and
// "*" patterns fall back to requiring every literal part as a substring, so "*Payment*"
// matches "PaymentServiceTest".
func MatchName(pattern, name string) bool {
	if pattern == "" {
		return false
	}
	if !HasWildcard(pattern) {
		return pattern == name
	}

	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return false
	}
	hasLiteral := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		hasLiteral = true
		if !strings.Contains(name, part) {
			return false
		}
	}
	return hasLiteral
}

// FilterByName keeps the files whose class name matches pattern
func FilterByName(files []string, pattern string) []string {
	var filtered []string
	for _, file := range files {
		if MatchName(pattern, ClassName(file)) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}
