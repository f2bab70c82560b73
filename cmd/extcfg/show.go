// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/internal/aggregate"
	"github.com/extcfg/extcfg/internal/render"
)

const formatJSON = "json"

var errUnknownSection = errors.New("unknown section")

func newShowCommand(app *App, opts *rootOptions) *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show [section]",
		Short: "Print an aggregated section without writing it",
		Long: `Print one aggregated section in the configured artifact format, or in
JSON with --format json. Without a section name the available sections are
listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section := ""
			if len(args) > 0 {
				section = args[0]
			}
			return runShow(cmd, app, opts, section, format)
		},
	}
	showCmd.Flags().StringVarP(&format, "format", "f", "", "output format: php, lua or json (default is the configured format)")

	return showCmd
}

func runShow(cmd *cobra.Command, app *App, opts *rootOptions, section, format string) error {
	ctx := cmd.Context()
	logger := app.logger(opts)

	proj, snap, err := app.snapshot(ctx, opts, logger)
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	res, err := aggregate.Aggregate(ctx, snap, proj.AggregateOptions(logger))
	if err != nil {
		return app.fail(cmd, opts, err)
	}

	if section == "" {
		for _, name := range res.Sections.Keys() {
			fmt.Fprintln(app.stdout, name)
		}
		return nil
	}

	v, ok := res.Sections.Get(section)
	if !ok {
		err := fmt.Errorf("%w %q (available: %s)", errUnknownSection, section, strings.Join(res.Sections.Keys(), ", "))
		return app.fail(cmd, opts, err)
	}

	if format == "" {
		format = string(proj.Settings.Format)
	}
	if format == formatJSON {
		data, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return app.fail(cmd, opts, err)
		}
		fmt.Fprintf(app.stdout, "%s\n", data)
		return nil
	}

	renderer, err := render.ForFormat(render.Format(format))
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	data, err := renderer.Render(v, render.NewLayout(snap.Locator.Base, snap.OutputDir))
	if err != nil {
		return app.fail(cmd, opts, err)
	}
	_, err = app.stdout.Write(data)
	return err
}
