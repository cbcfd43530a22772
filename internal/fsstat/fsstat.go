// Package fsstat obtains the size of a single path without following symlinks.
package fsstat

import (
	"errors"
	"io/fs"
	"os"
)

// Stater returns the size in bytes of one path.
type Stater interface {
	Stat(path string) (int64, error)
}

// Error records a failed stat and the path that caused it.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return "stat " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err means the path vanished or never existed.
// Such failures are soft: the path is skipped without a diagnostic.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Lstat is the Stater used in production. It reports a symlink's own size.
type Lstat struct{}

// Stat implements Stater using os.Lstat.
func (Lstat) Stat(path string) (int64, error) {
	info, err := os.Lstat(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return 0, &Error{Path: path, Err: err}
	}
	return info.Size(), nil
}
