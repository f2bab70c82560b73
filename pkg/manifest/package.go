// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

const (
	// DevVersion is the normalized version of a package installed from the
	// default development branch. Extension records of such packages carry
	// the VCS reference.
	DevVersion = "9999999-dev"

	// DefaultRootVersion is the version assumed for a root package that does
	// not declare one.
	DefaultRootVersion = "dev-main"

	// DefaultType is the package type Composer assumes when none is declared.
	DefaultType = "library"

	// DefaultContributionKey is the key inside extra that lists a package's
	// configuration contributions.
	DefaultContributionKey = "extension-plugin"
)

var (
	// ErrInvalidContributions is returned when the contribution entry in extra
	// is not an object of name to path strings.
	ErrInvalidContributions = errors.New("invalid contributions")

	// ErrInvalidAutoloadKind is the sentinel error wrapped by InvalidAutoloadKindError.
	ErrInvalidAutoloadKind = errors.New("invalid autoload kind")
)

type (
	// Package is the subset of a package's metadata extcfg consumes.
	Package struct {
		// Name is the canonical lower-case package name ("acme/pkg").
		Name string
		// PrettyName is the name as written by the package author.
		PrettyName string
		// Version is the normalized version ("1.2.0.0", "9999999-dev").
		Version string
		// PrettyVersion is the version as displayed by the host ("v1.2.0", "dev-main").
		PrettyVersion string
		Type          string
		// DefaultBranch is set when the host installed the package from its
		// repository's default branch under a branch-specific version.
		DefaultBranch bool
		// SourceReference is the VCS revision of the source install, if any.
		SourceReference string
		// DistReference is the revision recorded for the dist archive, if any.
		DistReference string
		// InstallPath is the absolute install directory. Empty for the root
		// package and for packages whose host did not record one.
		InstallPath types.FilesystemPath
		IsRoot      bool
		Autoload    Autoload
		// Extra is the package's free-form extra metadata, in declaration order.
		Extra *tree.Map
		// Requires lists the names of required packages in declaration order.
		Requires []string
	}

	// Contribution is one named configuration fragment declared by a package.
	// Name selects the output section; Path is relative to the package
	// location unless absolute.
	Contribution struct {
		Name string
		Path string
	}

	// InvalidContributionsError describes a malformed contribution list.
	InvalidContributionsError struct {
		Package string
		Key     string
		Reason  string
	}
)

// Error implements the error interface.
func (e *InvalidContributionsError) Error() string {
	return fmt.Sprintf("package %s: extra.%s: %s", e.Package, e.Key, e.Reason)
}

// Unwrap returns ErrInvalidContributions for errors.Is() compatibility.
func (e *InvalidContributionsError) Unwrap() error { return ErrInvalidContributions }

// String returns the package name followed by its pretty version.
func (p Package) String() string {
	if p.PrettyVersion == "" {
		return p.Name
	}
	return p.Name + " " + p.PrettyVersion
}

// DisplayName returns PrettyName, falling back to Name.
func (p Package) DisplayName() string {
	if p.PrettyName != "" {
		return p.PrettyName
	}
	return p.Name
}

// IsDev reports whether the package is installed from the default
// development branch.
func (p Package) IsDev() bool { return p.DefaultBranch || p.Version == DevVersion }

// Reference returns the source reference, falling back to the dist reference.
func (p Package) Reference() string {
	if p.SourceReference != "" {
		return p.SourceReference
	}
	return p.DistReference
}

// Contributions returns the contributions listed under extra[key] in
// declaration order. A missing key yields none; anything but an object of
// strings is an *InvalidContributionsError.
func (p Package) Contributions(key string) ([]Contribution, error) {
	raw, ok := p.Extra.Get(key)
	if !ok || tree.IsNull(raw) {
		return nil, nil
	}

	m, ok := raw.(*tree.Map)
	if !ok {
		if seq, isSeq := raw.(tree.Seq); isSeq && len(seq) == 0 {
			// An empty JSON array is how PHP serializes an empty object.
			return nil, nil
		}
		return nil, &InvalidContributionsError{Package: p.Name, Key: key, Reason: "expected an object of name to path, got " + raw.Kind().String()}
	}

	out := make([]Contribution, 0, m.Len())
	for name, v := range m.All() {
		s, ok := v.(tree.String)
		if !ok {
			return nil, &InvalidContributionsError{Package: p.Name, Key: key, Reason: fmt.Sprintf("path of %q must be a string, got %s", name, v.Kind())}
		}
		out = append(out, Contribution{Name: name, Path: string(s)})
	}
	return out, nil
}
