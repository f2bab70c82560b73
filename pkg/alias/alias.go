// SPDX-License-Identifier: MPL-2.0

// Package alias derives path aliases from package autoload declarations.
//
// An alias maps "@" plus a slash-separated namespace onto a directory:
//
//	psr-4 {"Foo\\Bar\\": "src"} in /proj/vendor/acme/pkg, base /proj
//	  => "@Foo/Bar": "<base-dir>/vendor/acme/pkg/src"
//
// Directories below the project base directory are written relative to the
// fspath.BaseDirPlaceholder so that generated artifacts survive moving the
// project. Declarations listing several directories are ambiguous and are
// skipped.
package alias

import (
	"strings"

	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
)

type (
	// Resolver supplies the directories aliases are derived against, in
	// portable slash form. manifest.Locator implements it.
	Resolver interface {
		BaseDir() string
		PackageDir(pkg manifest.Package) string
	}

	// SkipFunc is told about every declaration that produced no alias.
	SkipFunc func(pkg manifest.Package, kind manifest.AutoloadKind, entry manifest.AutoloadEntry)

	// Option configures Derive and ForPackage.
	Option func(*options)

	options struct {
		onSkip SkipFunc
	}
)

// WithSkipFunc registers a callback for ambiguous declarations.
func WithSkipFunc(fn SkipFunc) Option {
	return func(o *options) { o.onSkip = fn }
}

// Key returns the alias name for a namespace: surrounding backslashes are
// trimmed, inner ones become slashes and "@" is prepended.
func Key(namespace string) string {
	return "@" + slashNamespace(namespace)
}

func slashNamespace(namespace string) string {
	return strings.ReplaceAll(strings.Trim(namespace, `\`), `\`, "/")
}

// Derive returns the aliases produced by pkg's declarations for one autoload
// convention, in declaration order. A package without declarations for kind
// yields an empty map.
func Derive(pkg manifest.Package, kind manifest.AutoloadKind, r Resolver, opts ...Option) *tree.Map {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	out := tree.NewMap()
	entries := pkg.Autoload[kind]
	if len(entries) == 0 {
		return out
	}

	base := r.BaseDir()
	dir := r.PackageDir(pkg)
	for _, entry := range entries {
		p, ok := entry.Path()
		if !ok {
			if o.onSkip != nil {
				o.onSkip(pkg, kind, entry)
			}
			continue
		}

		target := fspath.Substitute(fspath.Resolve(dir, p), base, fspath.BaseDirPlaceholder)
		ns := slashNamespace(entry.Namespace)
		if kind == manifest.PSR0 {
			target += "/" + ns
		}
		out.Set("@"+ns, tree.String(target))
	}
	return out
}

// ForPackage returns the combined aliases of pkg: psr-0 aliases merged with
// psr-4 aliases, psr-4 winning on identical keys.
func ForPackage(pkg manifest.Package, r Resolver, opts ...Option) *tree.Map {
	return tree.MergeMaps(
		Derive(pkg, manifest.PSR0, r, opts...),
		Derive(pkg, manifest.PSR4, r, opts...),
	)
}
