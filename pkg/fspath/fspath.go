// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath for
// types.FilesystemPath and the portable, slash-separated path helpers used
// when paths are written into generated artifacts.
//
// Paths that end up in artifacts (alias targets, the vendor alias) always use
// forward slashes regardless of the host OS, so that the project can be moved
// between machines. Paths used to touch the disk go through the typed
// wrappers and keep the OS separator.
package fspath

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/extcfg/extcfg/pkg/types"
)

// BaseDirPlaceholder marks the portion of a portable path that equals the
// project base directory. Renderers replace it with a runtime expression.
const BaseDirPlaceholder = "<base-dir>"

// Join wraps filepath.Join, accepting and returning types.FilesystemPath.
func Join(elem ...types.FilesystemPath) types.FilesystemPath {
	strs := make([]string, len(elem))
	for i, e := range elem {
		strs[i] = string(e)
	}
	return types.FilesystemPath(filepath.Join(strs...))
}

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments such as "composer.json" or a package name.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}

// Abs wraps filepath.Abs for FilesystemPath. Returns an error if the
// underlying OS call fails.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean for FilesystemPath.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs for FilesystemPath.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// Rel wraps filepath.Rel for FilesystemPath.
func Rel(base, target types.FilesystemPath) (types.FilesystemPath, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", fmt.Errorf("relative path from %s to %s: %w", base, target, err)
	}
	return types.FilesystemPath(rel), nil
}

// ToPortable converts an OS path into its normalized slash form.
func ToPortable(p types.FilesystemPath) string {
	return Normalize(filepath.ToSlash(string(p)))
}

// FromPortable converts a slash path back into an OS path.
func FromPortable(p string) types.FilesystemPath {
	return types.FilesystemPath(filepath.FromSlash(p))
}

// Normalize turns backslashes into forward slashes and lexically cleans the
// result: duplicate separators, "." and ".." segments are collapsed and a
// trailing slash is dropped. The empty path normalizes to "".
func Normalize(p string) string {
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if vol, rest, ok := splitDrive(p); ok {
		if rest == "" {
			return vol + "/"
		}
		return vol + path.Clean(rest)
	}
	return path.Clean(p)
}

// IsPortableAbs reports whether a slash path is absolute: it starts with a
// slash or with a drive letter followed by ":/".
func IsPortableAbs(p string) bool {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "/") {
		return true
	}
	_, rest, ok := splitDrive(p)
	return ok && strings.HasPrefix(rest, "/")
}

// Resolve returns p unchanged (normalized) when it is absolute, otherwise p
// joined onto dir and normalized.
func Resolve(dir, p string) string {
	if IsPortableAbs(p) {
		return Normalize(p)
	}
	return Normalize(dir + "/" + p)
}

// Substitute replaces the dir prefix of p with placeholder when p lies
// strictly below dir. Both paths are expected in normalized slash form.
// Paths outside dir, and dir itself, are returned unchanged.
func Substitute(p, dir, placeholder string) string {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	if !strings.HasPrefix(p, prefix) {
		return p
	}
	return placeholder + p[len(prefix)-1:]
}

// HasPlaceholder reports whether s starts with BaseDirPlaceholder and returns
// the remainder.
func HasPlaceholder(s string) (string, bool) {
	return strings.CutPrefix(s, BaseDirPlaceholder)
}

func splitDrive(p string) (vol, rest string, ok bool) {
	if len(p) < 2 || p[1] != ':' {
		return "", p, false
	}
	c := p[0]
	if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
		return "", p, false
	}
	return p[:2], p[2:], true
}
