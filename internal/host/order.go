// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"slices"
	"strings"

	"github.com/extcfg/extcfg/internal/config"
	"github.com/extcfg/extcfg/internal/dag"
	"github.com/extcfg/extcfg/pkg/manifest"
)

// Order returns pkgs in processing order. With config.OrderDependency every
// package comes after the installed packages it requires, ties broken by
// installed order. A dependency cycle yields the installed order unchanged
// together with the *dag.CycleError describing it.
func Order(pkgs []manifest.Package, mode config.OrderMode) ([]manifest.Package, error) {
	out := slices.Clone(pkgs)
	if mode == config.OrderInstalled || len(pkgs) < 2 {
		return out, nil
	}

	byName := make(map[string]manifest.Package, len(pkgs))
	g := dag.New()
	for _, pkg := range pkgs {
		byName[pkg.Name] = pkg
		g.AddNode(pkg.Name)
	}
	for _, pkg := range pkgs {
		for _, req := range pkg.Requires {
			// Platform requirements (php, ext-*) and packages that are not
			// installed have no node.
			dep := strings.ToLower(req)
			if _, ok := byName[dep]; ok {
				g.AddEdge(dep, pkg.Name)
			}
		}
	}

	names, err := g.TopologicalSort()
	if err != nil {
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			return out, cycle
		}
		return out, err
	}

	for i, name := range names {
		out[i] = byName[name]
	}
	return out, nil
}

// PlaceRoot adds root to pkgs at pos.
func PlaceRoot(pkgs []manifest.Package, root manifest.Package, pos config.RootPosition) []manifest.Package {
	out := make([]manifest.Package, 0, len(pkgs)+1)
	if pos == config.RootFirst {
		out = append(out, root)
		return append(out, pkgs...)
	}
	out = append(out, pkgs...)
	return append(out, root)
}
