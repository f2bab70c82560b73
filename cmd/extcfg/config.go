// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/extcfg/extcfg/internal/config"
)

// newConfigCommand creates the `extcfg config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect extcfg settings",
		Long: `Inspect extcfg settings.

Settings are read, in increasing precedence, from the built-in defaults,
<dir>/` + config.FileName + ` (or the --config file) and ` + config.EnvPrefix + `_* environment
variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadSettings(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, opts, err)
			}
			showConfig(app.stdout, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective settings as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadSettings(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, opts, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	vendor := valueStyle.Render(cfg.VendorDir)
	if cfg.VendorDir == "" {
		vendor = SubtitleStyle.Render("(from composer.json)")
	}
	legacy := valueStyle.Render(cfg.LegacyExtensionsFile)
	if cfg.LegacyExtensionsFile == "" {
		legacy = SubtitleStyle.Render("(disabled)")
	}

	rows := []struct{ key, value string }{
		{"vendor_dir", vendor},
		{"output_dir", valueStyle.Render(cfg.OutputDir)},
		{"format", valueStyle.Render(cfg.Format.String())},
		{"package_type", valueStyle.Render(cfg.PackageType)},
		{"extra_key", valueStyle.Render(cfg.ExtraKey)},
		{"order", valueStyle.Render(string(cfg.Order))},
		{"root_position", valueStyle.Render(string(cfg.RootPosition))},
		{"seed_vendor_alias", valueStyle.Render(fmt.Sprintf("%v", cfg.SeedVendorAlias))},
		{"legacy_extensions_file", legacy},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(r.key), r.value)
	}
}
