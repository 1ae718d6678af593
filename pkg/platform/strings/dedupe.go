// Package strings provides string set helpers.
package strings

import (
	"strings"
)

// Canon maps a raw value to its canonical form. An empty result drops the
// value.
type Canon func(string) string

// Trim removes surrounding whitespace.
func Trim(s string) string { return strings.TrimSpace(s) }

// TrimLower trims and lowercases, for case-insensitive sets.
func TrimLower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Dedupe canonicalizes each value and keeps the first occurrence of each
// result, in input order. Nil and empty inputs are returned unchanged.
func Dedupe(values []string, canon Canon) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		c := canon(v)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DedupeAndTrimLower is Dedupe with TrimLower.
func DedupeAndTrimLower(values []string) []string {
	return Dedupe(values, TrimLower)
}
