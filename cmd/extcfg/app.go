// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/internal/aggregate"
	"github.com/extcfg/extcfg/internal/config"
	"github.com/extcfg/extcfg/internal/dag"
	"github.com/extcfg/extcfg/internal/host"
	"github.com/extcfg/extcfg/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference and go through its settings provider
	// and output streams.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootOptions holds the persistent flags shared by every subcommand.
	rootOptions struct {
		verbose    bool
		configPath string
		dir        string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// logger returns the progress logger writing to stderr.
func (a *App) logger(opts *rootOptions) *log.Logger {
	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// loadSettings reads extcfg.cue from the --config path or the project
// directory.
func (a *App) loadSettings(ctx context.Context, opts *rootOptions) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: opts.configPath,
		BaseDir:        opts.dir,
	})
}

// loadProject reads the settings and the Composer project.
func (a *App) loadProject(ctx context.Context, opts *rootOptions, logger *log.Logger) (*host.Project, error) {
	cfg, err := a.loadSettings(ctx, opts)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("loaded settings", "file", cfg.Source)
	}
	return host.Load(ctx, types.FilesystemPath(opts.dir), cfg, logger)
}

// snapshot loads the project and orders its packages. A dependency cycle is
// reported as a warning and processing continues in installed order.
func (a *App) snapshot(ctx context.Context, opts *rootOptions, logger *log.Logger) (*host.Project, aggregate.Snapshot, error) {
	proj, err := a.loadProject(ctx, opts, logger)
	if err != nil {
		return nil, aggregate.Snapshot{}, err
	}

	snap, err := proj.Snapshot()
	if err := tolerateCycle(logger, err); err != nil {
		return nil, aggregate.Snapshot{}, err
	}
	return proj, snap, nil
}

// tolerateCycle logs a dependency cycle and drops it; any other ordering
// error is returned unchanged.
func tolerateCycle(logger *log.Logger, err error) error {
	var cycle *dag.CycleError
	if errors.As(err, &cycle) {
		logger.Warn("dependency cycle detected, using installed order", "cycle", strings.Join(cycle.Cycle, " -> "))
		return nil
	}
	return err
}

// fail renders err with its issue help text and returns the ExitError that
// carries the exit code back to Execute.
func (a *App) fail(cmd *cobra.Command, opts *rootOptions, err error) error {
	issueID, code, styled := classifyError(err, opts.verbose)
	svcErr := newServiceError(err, issueID, styled)
	renderServiceError(a.stderr, svcErr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: code, Err: svcErr}
}
