// Package resolve expands path and glob arguments into an ordered, deduplicated set
// of absolute paths.
package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// NegationPrefix marks a pattern that removes earlier matches instead of adding.
const NegationPrefix = "!"

// Resolver turns raw CLI arguments into absolute paths.
type Resolver struct {
	workDir    string
	ignoreFile string
	logger     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkingDir sets the directory relative patterns are resolved against.
// Defaults to the process working directory.
func WithWorkingDir(dir string) Option {
	return func(r *Resolver) { r.workDir = dir }
}

// WithGitignore drops resolved paths that the given .gitignore file ignores.
// A missing file disables the filter.
func WithGitignore(path string) Option {
	return func(r *Resolver) { r.ignoreFile = path }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve expands patterns in order. Literal paths are kept even when they do not
// exist; globs contribute only what they match; negations remove earlier matches.
// The result has no duplicates and no path nested under another result path.
func (r *Resolver) Resolve(ctx context.Context, patterns []string) ([]string, error) {
	workDir := r.workDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		workDir = wd
	}

	var paths []string
	for _, pattern := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, NegationPrefix) {
			paths = r.exclude(paths, strings.TrimPrefix(pattern, NegationPrefix), workDir)
			continue
		}
		matches, err := r.expand(ctx, pattern, workDir)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("pattern expanded", zap.String("pattern", pattern), zap.Int("matches", len(matches)))
		paths = append(paths, matches...)
	}

	if r.ignoreFile != "" {
		paths = r.dropIgnored(paths, workDir)
	}
	return dedupe(removeContained(paths)), nil
}

func (r *Resolver) dropIgnored(paths []string, workDir string) []string {
	ignoreFile := absolute(r.ignoreFile, workDir)
	if _, err := os.Stat(ignoreFile); err != nil {
		r.logger.Debug("ignore file not used", zap.String("path", ignoreFile), zap.Error(err))
		return paths
	}
	matcher, err := gitignore.NewGitIgnore(ignoreFile, workDir)
	if err != nil {
		r.logger.Warn("could not parse ignore file", zap.String("path", ignoreFile), zap.Error(err))
		return paths
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		isDir := false
		if info, err := os.Lstat(p); err == nil {
			isDir = info.IsDir()
		}
		if matcher.Match(p, isDir) {
			r.logger.Debug("path ignored", zap.String("path", p))
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// absolute joins p onto workDir when relative and cleans the result lexically.
func absolute(p, workDir string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return filepath.Clean(p)
}

// removeContained drops every path that has a strict ancestor directory in paths.
func removeContained(paths []string) []string {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !hasAncestor(p, set) {
			kept = append(kept, p)
		}
	}
	return kept
}

func hasAncestor(p string, set map[string]struct{}) bool {
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if _, ok := set[dir]; ok && dir != p {
			return true
		}
		if parent := filepath.Dir(dir); parent == dir {
			return false
		}
	}
}

// dedupe keeps the first occurrence of each path.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
