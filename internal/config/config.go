// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/extcfg/extcfg/internal/issue"
	"github.com/extcfg/extcfg/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "extcfg"
	// FileName is the settings file looked up in the project directory.
	FileName = "extcfg.cue"
	// EnvPrefix prefixes environment overrides (EXTCFG_FORMAT).
	EnvPrefix = "EXTCFG"
)

//go:embed config_schema.cue
var configSchema string

// loadWithOptions performs option-driven settings loading. It never caches;
// every call reads the file again.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("vendor_dir", defaults.VendorDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("format", string(defaults.Format))
	v.SetDefault("package_type", defaults.PackageType)
	v.SetDefault("extra_key", defaults.ExtraKey)
	v.SetDefault("order", string(defaults.Order))
	v.SetDefault("root_position", string(defaults.RootPosition))
	v.SetDefault("seed_vendor_alias", defaults.SeedVendorAlias)
	v.SetDefault("legacy_extensions_file", defaults.LegacyExtensionsFile)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config path must exist; the project file is optional.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'extcfg config dump' to create a settings file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else if opts.BaseDir != "" {
		if p := filepath.Join(opts.BaseDir, FileName); fileExists(p) {
			resolvedPath = p
		}
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the settings match the schema shown by 'extcfg config dump'").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Source = resolvedPath

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(sourceName(resolvedPath)).
			WithSuggestion("Check the " + EnvPrefix + "_* environment variables").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

func sourceName(path string) string {
	if path == "" {
		return "defaults and environment"
	}
	return path
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// This compiles schema and file in one context instead of going through
// cueutil.ParseAndDecode because the result feeds Viper as a map and all
// fields are optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := cueutil.ReadFile(path, cueutil.DefaultMaxFileSize)
	if err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merging keeps the defaults for unset keys and leaves env overrides on top.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// GenerateCUE generates a CUE representation of the configuration that
// validates against the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// extcfg settings\n")
	sb.WriteString("// Place this file at <project>/" + FileName + " or pass it with --config.\n\n")

	if cfg.VendorDir != "" {
		fmt.Fprintf(&sb, "vendor_dir: %q\n", cfg.VendorDir)
	} else {
		sb.WriteString("// vendor_dir: \"vendor\" // defaults to composer.json config.vendor-dir\n")
	}
	fmt.Fprintf(&sb, "output_dir: %q\n", cfg.OutputDir)
	fmt.Fprintf(&sb, "format:     %q\n", cfg.Format)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "package_type: %q\n", cfg.PackageType)
	fmt.Fprintf(&sb, "extra_key:    %q\n", cfg.ExtraKey)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "order:         %q\n", cfg.Order)
	fmt.Fprintf(&sb, "root_position: %q\n", cfg.RootPosition)

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "seed_vendor_alias: %v\n", cfg.SeedVendorAlias)
	if cfg.LegacyExtensionsFile != "" {
		fmt.Fprintf(&sb, "legacy_extensions_file: %q\n", cfg.LegacyExtensionsFile)
	}

	return sb.String()
}
