// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/types"
)

// Locator resolves package locations against the project directories.
// It satisfies alias.Resolver.
type Locator struct {
	// Base is the absolute project base directory (the root package location).
	Base types.FilesystemPath
	// Vendor is the absolute vendor directory.
	Vendor types.FilesystemPath
}

// BaseDir returns the base directory in portable slash form.
func (l Locator) BaseDir() string { return fspath.ToPortable(l.Base) }

// VendorDir returns the vendor directory in portable slash form.
func (l Locator) VendorDir() string { return fspath.ToPortable(l.Vendor) }

// PackageDir returns the portable location of pkg: the base directory for
// the root package, the recorded install path when there is one, and
// <vendor>/<name> otherwise.
func (l Locator) PackageDir(pkg Package) string {
	switch {
	case pkg.IsRoot:
		return l.BaseDir()
	case pkg.InstallPath != "":
		return fspath.ToPortable(pkg.InstallPath)
	default:
		return fspath.Normalize(l.VendorDir() + "/" + pkg.DisplayName())
	}
}

// Resolve returns the on-disk location of a path declared by pkg.
func (l Locator) Resolve(pkg Package, p string) types.FilesystemPath {
	return fspath.FromPortable(fspath.Resolve(l.PackageDir(pkg), p))
}
