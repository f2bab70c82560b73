// SPDX-License-Identifier: MPL-2.0

package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/extcfg/extcfg/internal/aggregate"
	"github.com/extcfg/extcfg/internal/config"
	"github.com/extcfg/extcfg/internal/issue"
	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/types"
)

var (
	// ErrManifestNotFound is returned when the project has no composer.json.
	ErrManifestNotFound = errors.New("root manifest not found")
	// ErrManifestInvalid is returned when composer.json or installed.json
	// cannot be decoded.
	ErrManifestInvalid = errors.New("invalid package metadata")
)

// Project is a loaded Composer project.
type Project struct {
	Root manifest.Package
	// Installed lists the installed packages in installed.json order, without
	// the root package.
	Installed []manifest.Package
	Locator   manifest.Locator
	// OutputDir is the absolute artifact directory.
	OutputDir types.FilesystemPath
	// Settings the project was loaded with.
	Settings *config.Config
}

// Load reads the project rooted at baseDir. A missing installed.json is not
// an error: the project is treated as having no installed packages.
func Load(ctx context.Context, baseDir types.FilesystemPath, cfg *config.Config, logger *log.Logger) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	base, err := fspath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	composerPath := fspath.JoinStr(base, manifest.ComposerFile)
	root, err := manifest.ReadRoot(composerPath)
	if err != nil {
		return nil, manifestError("read root manifest", composerPath, err)
	}

	vendor := resolveDir(base, vendorDir(cfg, root))
	installedPath := manifest.InstalledPath(vendor)
	installed, err := manifest.ReadInstalled(installedPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warn("no installed packages found", "file", installedPath)
		installed = nil
	case err != nil:
		return nil, manifestError("read installed packages", installedPath, err)
	}

	// Some hosts list the root package among the installed ones.
	filtered := installed[:0]
	for _, pkg := range installed {
		if pkg.Name != root.Package.Name {
			filtered = append(filtered, pkg)
		}
	}

	p := &Project{
		Root:      root.Package,
		Installed: filtered,
		Locator:   manifest.Locator{Base: base, Vendor: vendor},
		OutputDir: resolveDir(vendor, cfg.OutputDir),
		Settings:  cfg,
	}
	logger.Debug("loaded project", "root", p.Root.Name, "installed", len(p.Installed), "vendor", vendor)
	return p, nil
}

// vendorDir applies the precedence settings, then composer.json
// config.vendor-dir, then the Composer default.
func vendorDir(cfg *config.Config, root *manifest.Root) string {
	switch {
	case cfg.VendorDir != "":
		return cfg.VendorDir
	case root.VendorDir != "":
		return root.VendorDir
	default:
		return manifest.DefaultVendorDir
	}
}

// resolveDir returns p when absolute and p joined onto dir otherwise.
func resolveDir(dir types.FilesystemPath, p string) types.FilesystemPath {
	fp := types.FilesystemPath(filepath.FromSlash(p))
	if fspath.IsAbs(fp) {
		return fspath.Clean(fp)
	}
	return fspath.Join(dir, fp)
}

func manifestError(op string, path types.FilesystemPath, err error) error {
	ctx := issue.NewErrorContext().WithOperation(op).WithResource(string(path))
	if errors.Is(err, fs.ErrNotExist) {
		return ctx.
			WithSuggestion("Run extcfg from the project root or pass --dir").
			Wrap(fmt.Errorf("%w: %w", ErrManifestNotFound, err)).
			BuildError()
	}
	return ctx.
		WithSuggestion("Run 'composer validate' to check the manifest").
		WithSuggestion("Run 'composer install' to regenerate the installed package list").
		Wrap(fmt.Errorf("%w: %w", ErrManifestInvalid, err)).
		BuildError()
}

// Snapshot returns the aggregation input: the packages in processing order
// and the project directories. The returned cycle error is non-nil when the
// dependency order fell back to installed order.
func (p *Project) Snapshot() (aggregate.Snapshot, error) {
	pkgs, cycleErr := Order(p.Installed, p.Settings.Order)
	pkgs = PlaceRoot(pkgs, p.Root, p.Settings.RootPosition)
	return aggregate.Snapshot{
		Packages:  pkgs,
		Locator:   p.Locator,
		OutputDir: p.OutputDir,
	}, cycleErr
}

// AggregateOptions translates the settings into aggregator options.
func (p *Project) AggregateOptions(logger *log.Logger) aggregate.Options {
	return aggregate.Options{
		Logger:               logger,
		PackageType:          p.Settings.PackageType,
		ContributionKey:      p.Settings.ExtraKey,
		SeedVendorAlias:      p.Settings.SeedVendorAlias,
		LegacyExtensionsFile: p.Settings.LegacyExtensionsFile,
	}
}
