// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"os"
	"path/filepath"

	"github.com/extcfg/extcfg/internal/render"
	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

type (
	// Writer renders sections and writes them as <Dir>/<section><ext>.
	Writer struct {
		Dir      types.FilesystemPath
		BaseDir  types.FilesystemPath
		Renderer render.Renderer
	}

	// Artifact is one written file.
	Artifact struct {
		Section string
		Path    types.FilesystemPath
		Size    int
	}
)

// Path returns the artifact location of a section.
func (w Writer) Path(section string) types.FilesystemPath {
	return fspath.JoinStr(w.Dir, section+w.Renderer.Ext())
}

// Write writes every section, in order.
func (w Writer) Write(sections *tree.Map) ([]Artifact, error) {
	out := make([]Artifact, 0, sections.Len())
	for name, v := range sections.All() {
		art, err := w.WriteFile(w.Path(name), name, v)
		if err != nil {
			return out, err
		}
		out = append(out, art)
	}
	return out, nil
}

// WriteFile renders v for the directory of path and replaces path with it.
// The content goes to a temporary file in the same directory first so that
// readers never observe a half-written artifact.
func (w Writer) WriteFile(path types.FilesystemPath, section string, v tree.Value) (Artifact, error) {
	dir := fspath.Dir(path)
	data, err := w.Renderer.Render(v, render.NewLayout(w.BaseDir, dir))
	if err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}

	if err := os.MkdirAll(string(dir), 0o755); err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(string(dir), "."+filepath.Base(string(path))+"-*")
	if err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return Artifact{}, &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), string(path)); err != nil {
		return Artifact{}, &WriteError{Path: path, Err: err}
	}
	renamed = true

	return Artifact{Section: section, Path: path, Size: len(data)}, nil
}
