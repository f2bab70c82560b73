// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/internal/aggregate"
	"github.com/extcfg/extcfg/internal/render"
)

func newGenerateCommand(app *App, opts *rootOptions) *cobra.Command {
	var dryRun bool

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the aggregated configuration artifacts",
		Long: `Aggregate the extension metadata of every installed package and write
one artifact per section into the output directory.

Nothing is written when any contribution fails to load; existing artifacts
are then left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, app, opts, dryRun)
		},
	}
	generateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "aggregate and list the artifacts without writing them")

	return generateCmd
}

func runGenerate(cmd *cobra.Command, app *App, opts *rootOptions, dryRun bool) error {
	ctx := cmd.Context()
	logger := app.logger(opts)

	proj, snap, err := app.snapshot(ctx, opts, logger)
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	renderer, err := render.ForFormat(proj.Settings.Format)
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	aggOpts := proj.AggregateOptions(logger)
	aggOpts.Renderer = renderer

	if dryRun {
		res, err := aggregate.Aggregate(ctx, snap, aggOpts)
		if err != nil {
			return app.fail(cmd, opts, err)
		}
		w := aggregate.Writer{Dir: snap.OutputDir, Renderer: renderer}
		for _, name := range res.Sections.Keys() {
			fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("would write"), CmdStyle.Render(w.Path(name).String()))
		}
		return nil
	}

	res, err := aggregate.Run(ctx, snap, aggOpts)
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	for _, art := range res.Artifacts {
		fmt.Fprintf(app.stdout, "%s %s (%d bytes)\n", SuccessStyle.Render("✓"), CmdStyle.Render(art.Path.String()), art.Size)
	}
	return nil
}
