// Package aggregate stats resolved paths one at a time and folds them into a
// RunResult, handing every intermediate state to a renderer.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/sizof/internal/fsstat"
	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
	"go.uber.org/zap"
)

// Renderer consumes the accumulating result. Update is called after every append,
// Finish once after the last path.
type Renderer interface {
	Update(result *models.RunResult) error
	Finish(result *models.RunResult) error
}

// Aggregator builds a RunResult from an ordered list of paths.
type Aggregator struct {
	stater   fsstat.Stater
	renderer Renderer
	nameMode models.NameMode
	units    utils.Units
	workDir  string
	logger   *zap.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithNameMode sets how entry names are derived (default relative).
func WithNameMode(m models.NameMode) Option {
	return func(a *Aggregator) { a.nameMode = m }
}

// WithUnits sets the scale for Entry.Length (default decimal).
func WithUnits(u utils.Units) Option {
	return func(a *Aggregator) { a.units = u }
}

// WithWorkingDir sets the directory relative names are computed against.
// Defaults to the process working directory.
func WithWorkingDir(dir string) Option {
	return func(a *Aggregator) { a.workDir = dir }
}

// WithLogger sets the logger used for stat failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an Aggregator.
func New(stater fsstat.Stater, renderer Renderer, opts ...Option) *Aggregator {
	a := &Aggregator{
		stater:   stater,
		renderer: renderer,
		nameMode: models.NameRelative,
		units:    utils.UnitsDecimal,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run stats every path in order. Missing paths are skipped silently; other
// *fsstat.Error failures are logged and skipped. A cancelled context, a renderer
// error or a stat error that is not an *fsstat.Error aborts the run.
func (a *Aggregator) Run(ctx context.Context, paths []string) (*models.RunResult, error) {
	workDir := a.workDir
	if workDir == "" && a.nameMode == models.NameRelative {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	result := models.NewRunResult()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		size, err := a.stater.Stat(path)
		if err != nil {
			var statErr *fsstat.Error
			if !errors.As(err, &statErr) {
				return result, fmt.Errorf("failed to stat %s: %w", path, err)
			}
			if !fsstat.IsNotFound(err) {
				a.logger.Warn("stat failed", zap.String("path", path), zap.Error(err))
			}
			continue
		}
		result.Append(models.Entry{
			Name:   a.displayName(path, workDir),
			Path:   path,
			Bytes:  size,
			Length: utils.FormatSize(size, a.units),
		})
		if err := a.renderer.Update(result); err != nil {
			return result, fmt.Errorf("failed to render: %w", err)
		}
	}
	if err := a.renderer.Finish(result); err != nil {
		return result, fmt.Errorf("failed to render: %w", err)
	}
	return result, nil
}

func (a *Aggregator) displayName(path, workDir string) string {
	if a.nameMode == models.NameBasename {
		return filepath.Base(path)
	}
	if workDir == "" {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil {
		return path
	}
	return rel
}
