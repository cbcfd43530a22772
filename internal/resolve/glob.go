package resolve

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
	"go.uber.org/zap"
)

const globstar = "**"

// hasMeta reports whether p contains glob metacharacters.
func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

// expand returns the absolute paths pattern refers to. Literal patterns are
// returned as-is whether or not they exist. Glob characters are only read from
// pattern itself, never from workDir.
func (r *Resolver) expand(ctx context.Context, pattern, workDir string) ([]string, error) {
	abs := absolute(pattern, workDir)
	if !hasMeta(pattern) {
		return []string{abs}, nil
	}
	base, rest := splitPattern(pattern, workDir)
	if strings.Contains(rest, globstar) {
		return r.walkMatches(ctx, base, rest, abs)
	}
	glob := filepath.ToSlash(rest)
	matches, err := fs.Glob(os.DirFS(base), glob)
	if err != nil {
		r.logger.Debug("malformed pattern treated as literal", zap.String("pattern", pattern), zap.Error(err))
		return []string{abs}, nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if hiddenMismatch(glob, m) {
			continue
		}
		out = append(out, filepath.Join(base, filepath.FromSlash(m)))
	}
	if len(out) == 0 && exists(abs) {
		r.logger.Debug("unmatched pattern names an existing path", zap.String("pattern", pattern))
		return []string{abs}, nil
	}
	return out, nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// hiddenMismatch reports whether match has a dot-prefixed component that was
// matched by a wildcard segment not itself starting with a dot. Both arguments
// are slash-separated and relative to the same base.
func hiddenMismatch(pattern, match string) bool {
	pSegs := strings.Split(pattern, "/")
	mSegs := strings.Split(match, "/")
	if len(pSegs) != len(mSegs) {
		return false
	}
	for i, seg := range mSegs {
		if strings.HasPrefix(seg, ".") && hasMeta(pSegs[i]) && !strings.HasPrefix(pSegs[i], ".") {
			return true
		}
	}
	return false
}

// splitPattern separates pattern into a literal base directory and the glob
// remainder relative to it. Relative patterns are rooted at workDir, which is
// always taken literally; leading ".." segments fold into the base.
func splitPattern(pattern, workDir string) (base, rest string) {
	sep := string(filepath.Separator)
	pattern = filepath.Clean(pattern)
	if filepath.IsAbs(pattern) {
		vol := filepath.VolumeName(pattern)
		base = vol + sep
		rest = strings.TrimPrefix(pattern[len(vol):], sep)
	} else {
		base = workDir
		rest = pattern
	}
	segs := strings.Split(rest, sep)
	i := 0
	for i < len(segs) && !hasMeta(segs[i]) {
		i++
	}
	base = filepath.Join(append([]string{base}, segs[:i]...)...)
	return base, strings.Join(segs[i:], sep)
}

// allowsHidden reports whether any segment of the glob remainder asks for
// dot-prefixed names.
func allowsHidden(rest string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(rest), "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// walkMatches expands a pattern containing "**" below base. Matched directories
// are returned as single entries and not descended into.
func (r *Resolver) walkMatches(ctx context.Context, base, rest, literal string) ([]string, error) {
	pm, err := patternmatcher.New([]string{rest})
	if err != nil {
		r.logger.Debug("malformed pattern treated as literal", zap.String("pattern", literal), zap.Error(err))
		return []string{literal}, nil
	}
	wantHidden := allowsHidden(rest)

	var out []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			r.logger.Debug("walk error", zap.String("path", path), zap.Error(err))
			return nil
		}
		if path == base {
			return nil
		}
		if !wantHidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return nil
		}
		ok, err := pm.MatchesOrParentMatches(rel)
		if err != nil || !ok {
			return nil
		}
		out = append(out, path)
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// exclude removes from paths everything pattern matches. Relative patterns are
// matched against the path relative to workDir, absolute ones against the path
// itself. A matched directory also excludes the paths beneath it.
func (r *Resolver) exclude(paths []string, pattern, workDir string) []string {
	if pattern == "" {
		return paths
	}
	pm, err := patternmatcher.New([]string{pattern})
	if err != nil {
		r.logger.Warn("ignoring malformed negation", zap.String("pattern", NegationPrefix+pattern), zap.Error(err))
		return paths
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		subject := p
		if !filepath.IsAbs(pattern) {
			rel, err := filepath.Rel(workDir, p)
			if err != nil {
				kept = append(kept, p)
				continue
			}
			subject = rel
		}
		if ok, _ := pm.MatchesOrParentMatches(subject); ok {
			r.logger.Debug("path excluded", zap.String("pattern", NegationPrefix+pattern), zap.String("path", p))
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// PatternDirs returns the directories in which new matches for patterns could
// appear: the parent of each literal and the static base of each glob.
// Negations are skipped.
func PatternDirs(patterns []string, workDir string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	for _, p := range patterns {
		if p == "" || strings.HasPrefix(p, NegationPrefix) {
			continue
		}
		dir := filepath.Dir(absolute(p, workDir))
		if hasMeta(p) {
			dir, _ = splitPattern(p, workDir)
		}
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
