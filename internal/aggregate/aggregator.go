// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/extcfg/extcfg/internal/loader"
	"github.com/extcfg/extcfg/internal/render"
	"github.com/extcfg/extcfg/pkg/alias"
	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
)

const (
	// SectionExtensions holds one record per recognized extension package.
	SectionExtensions = "extensions"
	// SectionAliases holds the aliases of every processed package.
	SectionAliases = "aliases"

	// DefaultPackageType is the package type recognized as an extension.
	DefaultPackageType = "yii2-extension"

	// VendorAlias is the alias seeded with the vendor directory.
	VendorAlias = "@vendor"
)

type (
	// Options configures an Aggregator. The zero value is usable.
	Options struct {
		// Logger receives progress and skip notices. Nil discards them.
		Logger *log.Logger
		// Registry loads contribution files. Nil uses loader.NewRegistry().
		Registry *loader.Registry
		// PackageType is the type recognized as an extension. Empty means
		// DefaultPackageType.
		PackageType string
		// ContributionKey is the key inside extra listing contributions.
		// Empty means manifest.DefaultContributionKey.
		ContributionKey string
		// SeedVendorAlias adds VendorAlias to the aliases section before any
		// package is processed.
		SeedVendorAlias bool
		// Renderer serializes artifacts in Run. Nil means render.PHP.
		Renderer render.Renderer
		// LegacyExtensionsFile, when set, is a vendor-relative slash path
		// that Run overwrites with an empty artifact.
		LegacyExtensionsFile string
	}

	// Extension is the record kept for each recognized package.
	Extension struct {
		Name    string
		Version string
		// Reference is the VCS revision, set for default-branch installs only.
		Reference string
	}

	// Aggregator accumulates the sections of one run. It is not safe for
	// concurrent use; packages must be processed in order.
	Aggregator struct {
		opts       Options
		loc        manifest.Locator
		extensions *tree.Map
		aliases    *tree.Map
		sections   *tree.Map
	}
)

// New returns an Aggregator resolving package locations with loc.
func New(loc manifest.Locator, opts Options) *Aggregator {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Registry == nil {
		opts.Registry = loader.NewRegistry()
	}
	if opts.PackageType == "" {
		opts.PackageType = DefaultPackageType
	}
	if opts.ContributionKey == "" {
		opts.ContributionKey = manifest.DefaultContributionKey
	}

	a := &Aggregator{
		opts:       opts,
		loc:        loc,
		extensions: tree.NewMap(),
		aliases:    tree.NewMap(),
		sections:   tree.NewMap(),
	}
	if opts.SeedVendorAlias {
		a.aliases.Set(VendorAlias, tree.String(fspath.Substitute(loc.VendorDir(), loc.BaseDir(), fspath.BaseDirPlaceholder)))
	}
	return a
}

// ProcessPackage folds one package into the accumulated sections. Packages
// that are neither of the extension type nor declare contributions are
// skipped. The first failing contribution aborts with an error; sections
// already merged stay in memory but the run is expected to stop.
func (a *Aggregator) ProcessPackage(pkg manifest.Package) error {
	contribs, err := pkg.Contributions(a.opts.ContributionKey)
	if err != nil {
		return err
	}
	if pkg.Type != a.opts.PackageType && len(contribs) == 0 {
		return nil
	}
	for _, c := range contribs {
		if !ValidSectionName(c.Name) {
			return &InvalidSectionNameError{Package: pkg.Name, Name: c.Name}
		}
	}

	a.recordExtension(pkg)

	pkgAliases := alias.ForPackage(pkg, a.loc, alias.WithSkipFunc(a.logSkip))
	a.aliases = tree.MergeMaps(a.aliases, pkgAliases)

	for _, c := range contribs {
		if err := a.mergeContribution(pkg, c, pkgAliases); err != nil {
			return err
		}
	}
	a.opts.Logger.Debug("processed package", "package", pkg.Name, "aliases", pkgAliases.Len(), "contributions", len(contribs))
	return nil
}

func (a *Aggregator) recordExtension(pkg manifest.Package) {
	ext := tree.MapOf("name", pkg.Name, "version", pkg.Version)
	if pkg.IsDev() {
		if ref := pkg.Reference(); ref != "" {
			ext.Set("reference", tree.String(ref))
		}
	}
	a.extensions.Set(pkg.Name, ext)
}

func (a *Aggregator) mergeContribution(pkg manifest.Package, c manifest.Contribution, pkgAliases *tree.Map) error {
	path := a.loc.Resolve(pkg, c.Path)
	if _, err := os.Stat(string(path)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ContributionNotFoundError{Package: pkg.Name, Contribution: c.Name, Path: path}
		}
		return &ContributionError{Package: pkg.Name, Contribution: c.Name, Path: path, Err: err}
	}

	loaded, err := a.opts.Registry.Load(path)
	if err != nil {
		return &ContributionError{Package: pkg.Name, Contribution: c.Name, Path: path, Err: err}
	}

	// Aliases declared inside the file win over the package's derived ones.
	if pkgAliases.Len() > 0 {
		own, _ := loaded.Get(SectionAliases)
		loaded.Set(SectionAliases, tree.Merge(pkgAliases, own))
	}

	current, ok := a.sections.Get(c.Name)
	if !ok {
		a.sections.Set(c.Name, loaded)
	} else {
		a.sections.Set(c.Name, tree.Merge(current, loaded))
	}
	a.opts.Logger.Debug("merged contribution", "package", pkg.Name, "section", c.Name, "file", path)
	return nil
}

func (a *Aggregator) logSkip(pkg manifest.Package, kind manifest.AutoloadKind, entry manifest.AutoloadEntry) {
	a.opts.Logger.Info("skipping ambiguous autoload entry",
		"package", pkg.Name, "kind", kind, "namespace", entry.Namespace, "paths", strings.Join(entry.Paths, ", "))
}

// Sections returns a copy of the accumulated sections: "extensions" and
// "aliases" first, then contribution sections in the order they were first
// contributed. A contribution section named like a built-in one is merged
// into it.
func (a *Aggregator) Sections() *tree.Map {
	out := tree.NewMap()
	out.Set(SectionExtensions, tree.Clone(a.extensions))
	out.Set(SectionAliases, tree.Clone(a.aliases))
	for name, v := range a.sections.All() {
		if cur, ok := out.Get(name); ok {
			out.Set(name, tree.Merge(cur, v))
			continue
		}
		out.Set(name, tree.Clone(v))
	}
	return out
}

// Extensions returns the recorded extensions in processing order.
func (a *Aggregator) Extensions() []Extension {
	out := make([]Extension, 0, a.extensions.Len())
	for _, v := range a.extensions.All() {
		m := v.(*tree.Map)
		out = append(out, Extension{
			Name:      stringField(m, "name"),
			Version:   stringField(m, "version"),
			Reference: stringField(m, "reference"),
		})
	}
	return out
}

func stringField(m *tree.Map, key string) string {
	v, _ := m.Get(key)
	s, _ := v.(tree.String)
	return string(s)
}

// ValidSectionName reports whether name can be used as an artifact file name.
func ValidSectionName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\\x00")
}
