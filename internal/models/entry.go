// Package models defines the data produced by a single sizing run.
package models

import "fmt"

// Entry is one resolved filesystem object and its size at the time it was stated.
type Entry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
	Length string `json:"length"`
}

// NameMode selects how Entry.Name is derived from the absolute path.
type NameMode string

const (
	// NameRelative renders the path relative to the working directory (default).
	NameRelative NameMode = "relative"
	// NameBasename renders only the final path component.
	NameBasename NameMode = "basename"
)

// ParseNameMode returns the NameMode for s. An empty string yields NameRelative.
func ParseNameMode(s string) (NameMode, error) {
	switch NameMode(s) {
	case "", NameRelative:
		return NameRelative, nil
	case NameBasename:
		return NameBasename, nil
	default:
		return "", fmt.Errorf("invalid name mode %q (want %q or %q)", s, NameRelative, NameBasename)
	}
}
