// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

const (
	// FormatPHP selects the PHP renderer.
	FormatPHP Format = "php"
	// FormatLua selects the Lua renderer.
	FormatLua Format = "lua"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format names an artifact format.
	Format string

	// InvalidFormatError is returned for an unknown format name.
	InvalidFormatError struct {
		Value Format
	}

	// Renderer serializes one section.
	Renderer interface {
		// Ext returns the artifact file extension, with the dot.
		Ext() string
		// Render returns the artifact for v.
		Render(v tree.Value, layout Layout) ([]byte, error)
	}

	// Layout tells a renderer how to recompute the base directory from the
	// artifact's own location.
	Layout struct {
		// Depth is the number of directories between the output directory and
		// the base directory. Zero means the artifacts live in the base
		// directory itself.
		Depth int
		// Absolute, when non-empty, is the portable base directory to embed
		// literally because the output directory is not below it.
		Absolute string
	}
)

// Formats returns the supported formats.
func Formats() []Format { return []Format{FormatPHP, FormatLua} }

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// Validate returns an error if f is not a supported format.
func (f Format) Validate() error {
	switch f {
	case FormatPHP, FormatLua:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: php, lua)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// ForFormat returns the renderer for f.
func ForFormat(f Format) (Renderer, error) {
	switch f {
	case FormatPHP:
		return PHP{}, nil
	case FormatLua:
		return Lua{}, nil
	default:
		return nil, &InvalidFormatError{Value: f}
	}
}

// NewLayout computes the layout of artifacts written to outputDir for a
// project rooted at baseDir. Both paths should be absolute.
func NewLayout(baseDir, outputDir types.FilesystemPath) Layout {
	rel, err := fspath.Rel(fspath.Clean(baseDir), fspath.Clean(outputDir))
	if err != nil {
		return Layout{Absolute: fspath.ToPortable(baseDir)}
	}
	r := filepath.ToSlash(string(rel))
	if r == ".." || strings.HasPrefix(r, "../") || filepath.IsAbs(string(rel)) {
		return Layout{Absolute: fspath.ToPortable(baseDir)}
	}
	if r == "." {
		return Layout{}
	}
	return Layout{Depth: strings.Count(r, "/") + 1}
}

// Resolve replaces a leading placeholder in every string of v with baseDir,
// which is what loading an artifact does. Tests use it to compare artifacts
// with in-memory sections.
func Resolve(v tree.Value, baseDir string) tree.Value {
	switch t := v.(type) {
	case tree.String:
		if rest, ok := fspath.HasPlaceholder(string(t)); ok {
			return tree.String(baseDir + rest)
		}
		return t
	case tree.Seq:
		out := make(tree.Seq, len(t))
		for i, e := range t {
			out[i] = Resolve(e, baseDir)
		}
		return out
	case *tree.Map:
		out := tree.NewMap()
		for k, e := range t.All() {
			out.Set(k, Resolve(e, baseDir))
		}
		return out
	default:
		return v
	}
}
