// Package main is the sizof CLI entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hyperjump/sizof/internal/config"
	"github.com/hyperjump/sizof/internal/models"
	"github.com/hyperjump/sizof/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var version = "dev"

// localConfigName is looked up in the working directory before the default path.
const localConfigName = ".sizof.yaml"

type options struct {
	json       bool
	nameMode   string
	units      string
	exact      bool
	gitignore  bool
	noColor    bool
	watch      bool
	debug      bool
	configPath string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "sizof <path|glob> [...]",
		Short: "Report the size of files and directories matched by paths or globs",
		Long: `sizof prints the on-disk size of every path matched by its arguments as a
live-updating table followed by the total. Arguments are literal paths or shell
globs; a glob prefixed with ! removes earlier matches. Directories are listed as
single entries and are not descended into.`,
		Example: `  sizof bundler.js
  sizof '*.js' '!*.min.js'
  sizof --json 'src/**/*.go'`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return run(cmd, opts, args)
		},
	}
	cmd.SetOut(stdout)

	flags := cmd.Flags()
	flags.BoolVarP(&opts.json, "json", "j", false, "Output the result as JSON")
	flags.StringVarP(&opts.nameMode, "name", "n", string(models.NameRelative), "Entry naming: relative or basename")
	flags.StringVarP(&opts.units, "units", "u", string(utils.UnitsDecimal), "Size units: decimal or binary")
	flags.BoolVar(&opts.exact, "exact", false, "Append the exact byte count to the total")
	flags.BoolVar(&opts.gitignore, "gitignore", false, "Skip paths ignored by the .gitignore in the working directory")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable the colored size column")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "Re-run whenever a watched directory changes")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $HOME/.config/sizof/config.yaml)")
	return cmd
}

func run(cmd *cobra.Command, opts *options, patterns []string) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}
	cfg, configPath, err := loadConfig(opts.configPath, workDir)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("config loaded", zap.String("config_path", configPath), zap.Bool("debug", cfg.Debug))

	a := newApp(cfg, cmd.OutOrStdout(), opts.json, workDir, logger)
	if opts.watch {
		return a.watch(cmd.Context(), patterns)
	}
	_, _, err = a.runOnce(cmd.Context(), patterns)
	return err
}

// loadConfig loads the config at path when given (it must exist). Otherwise it
// tries .sizof.yaml in the working directory, then the default path, and falls
// back to defaults. Returns the config and the path that was actually loaded.
func loadConfig(path, workDir string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.LoadOrDefault(path, true)
		return cfg, path, err
	}
	local := filepath.Join(workDir, localConfigName)
	if _, err := os.Stat(local); err == nil {
		cfg, err := config.Load(local)
		return cfg, local, err
	}
	path = config.DefaultPath()
	cfg, err := config.LoadOrDefault(path, false)
	return cfg, path, err
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(flags *pflag.FlagSet, opts *options, cfg *config.Config) {
	if flags.Changed("name") {
		cfg.Output.NameMode = opts.nameMode
	}
	if flags.Changed("units") {
		cfg.Output.Units = opts.units
	}
	if flags.Changed("exact") {
		cfg.Output.ExactBytes = opts.exact
	}
	if flags.Changed("gitignore") {
		cfg.Resolve.RespectGitignore = opts.gitignore
	}
	if opts.noColor {
		noColor := false
		cfg.Output.Color = &noColor
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
}
