// Package utils provides small helpers for parsing request parameters,
// independent of the appointment domain.
package utils

import (
	"strconv"
	"strings"
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// LimitParam parses an optional result limit. Missing, malformed and
// non-positive values yield 0 (no limit); values above max are clamped.
func LimitParam(s string, max int) int {
	n := AtoiDefault(strings.TrimSpace(s), 0)
	switch {
	case n <= 0:
		return 0
	case max > 0 && n > max:
		return max
	}
	return n
}
