// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extcfg/extcfg/internal/issue"
	"github.com/extcfg/extcfg/internal/render"
	"github.com/extcfg/extcfg/internal/testutil"
)

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Format != render.FormatPHP {
		t.Errorf("Format = %q, want php", cfg.Format)
	}
	if cfg.Order != OrderDependency || cfg.RootPosition != RootLast {
		t.Errorf("Order, RootPosition = %q, %q, want dependency, last", cfg.Order, cfg.RootPosition)
	}
	if !cfg.SeedVendorAlias {
		t.Error("SeedVendorAlias = false, want true")
	}
	if cfg.VendorDir != "" || cfg.LegacyExtensionsFile != "" {
		t.Errorf("VendorDir, LegacyExtensionsFile = %q, %q, want empty", cfg.VendorDir, cfg.LegacyExtensionsFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := load(t, LoadOptions{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
	if cfg.Source != "" {
		t.Errorf("Source = %q, want empty", cfg.Source)
	}
}

func TestLoad_ProjectFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	testutil.MustWriteFile(t, path, `
format:        "lua"
root_position: "first"
order:         "installed"
output_dir:    "../config/generated"
`)

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != render.FormatLua || cfg.RootPosition != RootFirst || cfg.Order != OrderInstalled {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.OutputDir != "../config/generated" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	// Unset keys keep their defaults.
	if cfg.PackageType != "yii2-extension" || !cfg.SeedVendorAlias {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
}

func TestLoad_ExplicitFileWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), `format: "lua"`)
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, explicit, `seed_vendor_alias: false`)

	cfg, err := load(t, LoadOptions{ConfigFilePath: explicit, BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != render.FormatPHP {
		t.Errorf("project file was read although --config was given: %+v", cfg)
	}
	if cfg.SeedVendorAlias {
		t.Error("SeedVendorAlias = true, want false")
	}
}

func TestLoad_ExplicitFileNotFound(t *testing.T) {
	t.Parallel()

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if ae.Operation != "load configuration" || len(ae.Suggestions) == 0 {
		t.Errorf("ActionableError = %+v", ae)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown field", `colour: "red"`, "colour"},
		{"bad enum", `format: "xml"`, "format"},
		{"wrong type", `seed_vendor_alias: "yes"`, "seed_vendor_alias"},
		{"syntax error", `format: "php`, FileName},
		{"absolute legacy path", `legacy_extensions_file: "/etc/x.php"`, "legacy_extensions_file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.MustWriteFile(t, filepath.Join(dir, FileName), tt.content)

			_, err := load(t, LoadOptions{BaseDir: dir})
			if err == nil {
				t.Fatal("Load() succeeded, want an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	// Not parallel: mutates the process environment.
	t.Cleanup(testutil.MustSetenv(t, "EXTCFG_FORMAT", "lua"))
	t.Cleanup(testutil.MustSetenv(t, "EXTCFG_SEED_VENDOR_ALIAS", "false"))

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), `format: "php"`+"\n"+`extra_key: "config-plugin"`)

	cfg, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Format != render.FormatLua {
		t.Errorf("Format = %q, want the environment value lua", cfg.Format)
	}
	if cfg.SeedVendorAlias {
		t.Error("SeedVendorAlias = true, want the environment value false")
	}
	if cfg.ExtraKey != "config-plugin" {
		t.Errorf("ExtraKey = %q, want the file value", cfg.ExtraKey)
	}
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Cleanup(testutil.MustSetenv(t, "EXTCFG_ROOT_POSITION", "middle"))

	_, err := load(t, LoadOptions{BaseDir: t.TempDir()})
	if !errors.Is(err, ErrInvalidRootPosition) {
		t.Errorf("Load() error = %v, want ErrInvalidRootPosition", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.VendorDir = "lib/vendor"
	want.Format = render.FormatLua
	want.RootPosition = RootFirst
	want.LegacyExtensionsFile = "yiisoft/extensions.php"

	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	testutil.MustWriteFile(t, path, GenerateCUE(want))

	got, err := load(t, LoadOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Load(GenerateCUE()) error = %v", err)
	}
	got.Source = ""
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestGenerateCUE_DefaultsLeaveVendorDirUnset(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	if strings.Contains(out, "\nvendor_dir:") {
		t.Errorf("GenerateCUE() pins vendor_dir:\n%s", out)
	}
	if strings.Contains(out, "legacy_extensions_file") {
		t.Errorf("GenerateCUE() writes an empty legacy_extensions_file:\n%s", out)
	}
}
