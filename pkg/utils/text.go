// Package utils provides shared utilities for text, size formatting, and logging.
package utils

import "github.com/mattn/go-runewidth"

// Ellipsis is appended to truncated strings.
const Ellipsis = "…"

// Truncate returns s cut to at most maxWidth terminal columns, with Ellipsis appended
// if truncated. If maxWidth is 0 or negative, returns s unchanged.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// Width returns the number of terminal columns s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
