// SPDX-License-Identifier: MPL-2.0

package projecttest

import (
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

// WithType sets the package type.
func WithType(typ string) PackageOption {
	return set("type", tree.String(typ))
}

// WithVersion sets the pretty version.
func WithVersion(version string) PackageOption {
	return set("version", tree.String(version))
}

// WithSourceReference sets source.reference.
func WithSourceReference(ref string) PackageOption {
	return set("source", tree.MapOf("type", "git", "reference", ref))
}

// WithDistReference sets dist.reference.
func WithDistReference(ref string) PackageOption {
	return set("dist", tree.MapOf("type", "zip", "reference", ref))
}

// WithInstallPath sets install-path, relative to vendor/composer unless absolute.
func WithInstallPath(path string) PackageOption {
	return set("install-path", tree.String(path))
}

// WithPSR4 declares a psr-4 namespace with one path.
func WithPSR4(ns, path string) PackageOption {
	return autoload(manifest.PSR4, ns, tree.String(path))
}

// WithPSR0 declares a psr-0 namespace with one path.
func WithPSR0(ns, path string) PackageOption {
	return autoload(manifest.PSR0, ns, tree.String(path))
}

// WithPSR4List declares a psr-4 namespace in the list form.
func WithPSR4List(ns string, paths ...string) PackageOption {
	seq := make(tree.Seq, len(paths))
	for i, p := range paths {
		seq[i] = tree.String(p)
	}
	return autoload(manifest.PSR4, ns, seq)
}

// WithContribution adds a contribution under the default contribution key.
func WithContribution(name, path string) PackageOption {
	return func(rec *tree.Map) {
		merge(rec, tree.MapOf("extra", tree.MapOf(manifest.DefaultContributionKey, tree.MapOf(name, path))))
	}
}

// WithRequire adds required package names, each with a "*" constraint.
func WithRequire(names ...string) PackageOption {
	return func(rec *tree.Map) {
		req := tree.NewMap()
		for _, n := range names {
			req.Set(n, tree.String("*"))
		}
		merge(rec, tree.MapOf("require", req))
	}
}

// Dev marks the package as installed from the default branch.
func Dev() PackageOption {
	return func(rec *tree.Map) {
		rec.Set("version", tree.String("dev-main"))
		rec.Set("version_normalized", tree.String(manifest.DevVersion))
	}
}

func autoload(kind manifest.AutoloadKind, ns string, v tree.Value) PackageOption {
	return func(rec *tree.Map) {
		merge(rec, tree.MapOf("autoload", tree.MapOf(kind.String(), tree.MapOf(ns, v))))
	}
}

func set(key string, v tree.Value) PackageOption {
	return func(rec *tree.Map) { rec.Set(key, v) }
}

// merge folds src into rec in place, keeping rec's identity.
func merge(rec, src *tree.Map) {
	for k, v := range tree.MergeMaps(rec, src).All() {
		rec.Set(k, v)
	}
}

func manifestPath(p string) types.FilesystemPath { return types.FilesystemPath(p) }
