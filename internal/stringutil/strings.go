// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title uppercases the first letter of every word. A new Caser is built per
// call because cases.Caser is not safe for concurrent use.
//
// Example:
//
//	Title("dtf custom gang sheet") returns "Dtf Custom Gang Sheet"
//	Title("jane DOE") returns "Jane Doe"
func Title(s string) string {
	return cases.Title(language.English).String(s)
}

// NormalizeKey lowercases s, trims it and collapses runs of whitespace into
// a single space.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ContainsAny reports whether s contains any of the given substrings.
// An empty substring never matches.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsNumeric checks if a string contains only digits.
// Returns false for empty strings.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
