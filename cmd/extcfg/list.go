// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/internal/aggregate"
)

func newListCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the recognized extension packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			if len(res.Extensions) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no extensions found)"))
				return nil
			}
			fmt.Fprintln(app.stdout, extensionTable(res.Extensions))
			return nil
		},
	}
}

func extensionTable(exts []aggregate.Extension) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		Headers("NAME", "VERSION", "REFERENCE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	for _, ext := range exts {
		t.Row(ext.Name, ext.Version, ext.Reference)
	}
	return t.String()
}
