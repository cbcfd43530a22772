package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hyperjump/sizof/internal/aggregate"
	"github.com/hyperjump/sizof/internal/cli"
	"github.com/hyperjump/sizof/internal/config"
	"github.com/hyperjump/sizof/internal/fsstat"
	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/internal/resolve"
	"github.com/hyperjump/sizof/internal/watcher"
	"github.com/hyperjump/sizof/pkg/utils"
	"go.uber.org/zap"
)

// app wires resolve, stat, aggregate and render for one invocation.
type app struct {
	cfg     *config.Config
	out     io.Writer
	format  cli.OutputFormat
	workDir string
	stater  fsstat.Stater
	logger  *zap.Logger
}

func newApp(cfg *config.Config, out io.Writer, json bool, workDir string, logger *zap.Logger) *app {
	format := cli.OutputText
	if json {
		format = cli.OutputJSON
	}
	return &app{
		cfg:     cfg,
		out:     out,
		format:  format,
		workDir: workDir,
		stater:  fsstat.Lstat{},
		logger:  logger,
	}
}

func (a *app) resolver() *resolve.Resolver {
	opts := []resolve.Option{
		resolve.WithWorkingDir(a.workDir),
		resolve.WithLogger(a.logger),
	}
	if a.cfg.Resolve.RespectGitignore {
		opts = append(opts, resolve.WithGitignore(a.cfg.Resolve.IgnoreFile))
	}
	return resolve.New(opts...)
}

func (a *app) tableOptions() cli.TableOptions {
	tty := cli.IsTerminal(a.out)
	units, _ := utils.ParseUnits(a.cfg.Output.Units)
	return cli.TableOptions{
		MinNameWidth: a.cfg.Output.MinNameWidth,
		MaxNameWidth: a.cfg.Output.MaxNameWidth,
		Units:        units,
		Color:        tty && a.cfg.Output.ColorOrDefault(),
		Live:         tty && a.format == cli.OutputText,
		TermWidth:    cli.TerminalWidth(a.out),
		ExactBytes:   a.cfg.Output.ExactBytes,
	}
}

// runOnce resolves patterns and renders their sizes. It returns the result and
// the resolved paths so watch mode can track them.
func (a *app) runOnce(ctx context.Context, patterns []string) (*models.RunResult, []string, error) {
	paths, err := a.resolver().Resolve(ctx, patterns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	a.logger.Debug("paths resolved", zap.Int("count", len(paths)))

	opts := a.tableOptions()
	nameMode, _ := models.ParseNameMode(a.cfg.Output.NameMode)
	renderer := cli.NewRenderer(a.out, a.format, opts)
	agg := aggregate.New(a.stater, renderer,
		aggregate.WithNameMode(nameMode),
		aggregate.WithUnits(opts.Units),
		aggregate.WithWorkingDir(a.workDir),
		aggregate.WithLogger(a.logger.WithOptions(cli.InterruptOnLog(renderer))),
	)
	result, err := agg.Run(ctx, paths)
	if err != nil {
		return nil, paths, err
	}
	return result, paths, nil
}

// watch runs once, then re-runs after every debounced change in the directories
// the patterns and their matches live in. It returns nil when ctx is cancelled.
func (a *app) watch(ctx context.Context, patterns []string) error {
	_, paths, err := a.runOnce(ctx, patterns)
	if err != nil {
		return err
	}

	changes := make(chan string, 1)
	dirs := append(resolve.PatternDirs(patterns, a.workDir), watcher.DirsFor(paths)...)
	w := watcher.NewWatcher(dirs, func(path string) {
		select {
		case changes <- path:
		default:
		}
	}, watcher.WithLogger(a.logger), watcher.WithDebounce(a.cfg.Watch.Debounce))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()
	a.logger.Info("watching for changes", zap.Strings("dirs", w.Directories()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			a.logger.Debug("change detected", zap.String("path", path))
			if _, err := fmt.Fprintln(a.out); err != nil {
				return fmt.Errorf("failed to render: %w", err)
			}
			_, paths, err = a.runOnce(ctx, patterns)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			for _, dir := range watcher.DirsFor(paths) {
				if err := w.AddDirectory(dir); err != nil {
					a.logger.Debug("could not watch directory", zap.String("path", dir), zap.Error(err))
				}
			}
		}
	}
}
