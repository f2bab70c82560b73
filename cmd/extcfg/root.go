// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the extcfg command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "extcfg",
		Short: "Aggregate extension configuration of a Composer project",
		Long: TitleStyle.Render("extcfg") + SubtitleStyle.Render(" - Aggregate extension configuration of a Composer project") + `

extcfg reads the installed package list of a Composer project, recognizes
extension packages, derives their namespace aliases and merges the
configuration fragments they contribute. The result is written as one
artifact per section (PHP by default, Lua optionally).

` + SubtitleStyle.Render("Examples:") + `
  extcfg generate             Write every artifact into vendor/extcfg
  extcfg show aliases         Print one section without writing
  extcfg list                 List the recognized extensions
  extcfg config dump          Print the effective settings as CUE`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "settings file (default is <dir>/extcfg.cue when present)")
	rootCmd.PersistentFlags().StringVarP(&opts.dir, "dir", "d", ".", "Composer project directory")

	rootCmd.AddCommand(newGenerateCommand(app, opts))
	rootCmd.AddCommand(newShowCommand(app, opts))
	rootCmd.AddCommand(newListCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))
	rootCmd.AddCommand(newVersionCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(ctx context.Context, app *App, args []string) types.ExitCode {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	)
	if err == nil {
		return types.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Handlers report failures as ExitError; anything else comes from flag
	// or argument parsing.
	return types.ExitUsage
}

// errorHandler leaves errors that were already rendered as a ServiceError
// alone and styles the rest (flag and argument errors) the fang way.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// Main is the entry point of the extcfg binary.
func Main() {
	os.Exit(int(Execute(context.Background(), NewApp(Dependencies{}), os.Args[1:])))
}
