// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/extcfg/extcfg/pkg/cueutil"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

var (
	// ErrUnsupportedFormat is returned when no loader handles a file extension.
	ErrUnsupportedFormat = errors.New("unsupported contribution format")

	// ErrNotMapping is returned when a contribution file does not produce a
	// mapping at the top level.
	ErrNotMapping = errors.New("contribution is not a mapping")
)

type (
	// Loader decodes one file format.
	Loader interface {
		// Extensions lists the lower-case file extensions handled, with the dot.
		Extensions() []string
		// Load decodes data read from path.
		Load(path string, data []byte) (tree.Value, error)
	}

	// Registry dispatches files to loaders by extension.
	Registry struct {
		byExt       map[string]Loader
		maxFileSize int64
	}

	// Option configures a Registry.
	Option func(*Registry)

	// UnsupportedFormatError reports a file whose extension has no loader.
	UnsupportedFormatError struct {
		Path      string
		Extension string
		Supported []string
	}

	// NotMappingError reports a contribution whose top level is not a mapping.
	NotMappingError struct {
		Path string
		Kind tree.Kind
	}
)

// WithMaxFileSize limits the size of files the registry reads.
func WithMaxFileSize(size int64) Option {
	return func(r *Registry) { r.maxFileSize = size }
}

// WithLoader registers an additional loader, replacing the default for the
// extensions it declares.
func WithLoader(l Loader) Option {
	return func(r *Registry) { r.Register(l) }
}

// NewRegistry returns a registry with every built-in format registered.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		byExt:       map[string]Loader{},
		maxFileSize: cueutil.DefaultMaxFileSize,
	}
	for _, l := range []Loader{CUE{}, YAML{}, TOML{}, JSON{}, Lua{}} {
		r.Register(l)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds l for each of its extensions.
func (r *Registry) Register(l Loader) {
	for _, ext := range l.Extensions() {
		r.byExt[strings.ToLower(ext)] = l
	}
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Supports reports whether a loader is registered for path's extension.
func (r *Registry) Supports(path types.FilesystemPath) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(string(path)))]
	return ok
}

// Load reads path and decodes it with the loader registered for its
// extension. The file must exist; callers check existence first to report
// missing contributions with package context.
func (r *Registry) Load(path types.FilesystemPath) (*tree.Map, error) {
	p := string(path)
	ext := strings.ToLower(filepath.Ext(p))
	l, ok := r.byExt[ext]
	if !ok {
		return nil, &UnsupportedFormatError{Path: p, Extension: ext, Supported: r.Extensions()}
	}

	data, err := cueutil.ReadFile(p, r.maxFileSize)
	if err != nil {
		return nil, err
	}

	v, err := l.Load(p, data)
	if err != nil {
		return nil, err
	}
	if tree.IsNull(v) {
		return tree.NewMap(), nil
	}
	m, ok := v.(*tree.Map)
	if !ok {
		return nil, &NotMappingError{Path: p, Kind: v.Kind()}
	}
	return m, nil
}

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("%s: unsupported contribution format %s (supported: %s)", e.Path, ext, strings.Join(e.Supported, ", "))
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface.
func (e *NotMappingError) Error() string {
	return fmt.Sprintf("%s: top level must be a mapping, got %s", e.Path, e.Kind)
}

// Unwrap returns ErrNotMapping for errors.Is() compatibility.
func (e *NotMappingError) Unwrap() error { return ErrNotMapping }
