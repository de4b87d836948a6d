package util

import (
	"sort"
	"strings"
)

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// SplitTrim splits s on sep and trims whitespace from each element, keeping
// empty elements.
func SplitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// SortedCopy returns a sorted copy of list, leaving the input untouched.
func SortedCopy(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	sort.Strings(out)
	return out
}

// EqualStrings reports whether two lists hold the same elements in the same order.
func EqualStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualUnordered reports whether two lists hold the same elements with the
// same multiplicity, ignoring order.
func EqualUnordered(a, b []string) bool {
	return EqualStrings(SortedCopy(a), SortedCopy(b))
}

// BoolToYesNo renders a boolean the way nmcli expects it.
func BoolToYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
