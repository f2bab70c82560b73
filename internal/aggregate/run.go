// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/extcfg/extcfg/internal/render"
	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

type (
	// Snapshot is the immutable input of a run.
	Snapshot struct {
		// Packages in processing order. The caller decides where the root
		// package goes.
		Packages []manifest.Package
		Locator  manifest.Locator
		// OutputDir is the absolute directory receiving the artifacts.
		OutputDir types.FilesystemPath
	}

	// Result describes a completed run.
	Result struct {
		Sections   *tree.Map
		Extensions []Extension
		// Artifacts is empty for Aggregate and lists every written file for Run.
		Artifacts []Artifact
	}
)

// Aggregate processes every package of snap and returns the sections without
// writing anything.
func Aggregate(ctx context.Context, snap Snapshot, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := New(snap.Locator, opts)
	for _, pkg := range snap.Packages {
		if err := a.ProcessPackage(pkg); err != nil {
			return nil, err
		}
	}
	return &Result{Sections: a.Sections(), Extensions: a.Extensions()}, nil
}

// Run aggregates snap and writes one artifact per section into
// snap.OutputDir. On any aggregation error nothing is written.
func Run(ctx context.Context, snap Snapshot, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	logger.Info("generating extension files", "packages", len(snap.Packages))

	res, err := Aggregate(ctx, snap, opts)
	if err != nil {
		return nil, err
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.PHP{}
	}
	w := Writer{Dir: snap.OutputDir, BaseDir: snap.Locator.Base, Renderer: renderer}

	res.Artifacts, err = w.Write(res.Sections)
	if err != nil {
		return nil, err
	}

	if opts.LegacyExtensionsFile != "" {
		path := fspath.JoinStr(snap.Locator.Vendor, filepath.FromSlash(opts.LegacyExtensionsFile))
		art, err := w.WriteFile(path, SectionExtensions, tree.NewMap())
		if err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, art)
	}

	logger.Info("wrote extension files", "dir", snap.OutputDir, "artifacts", len(res.Artifacts), "extensions", len(res.Extensions))
	return res, nil
}
