// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

const (
	// ComposerFile is the root manifest file name.
	ComposerFile = "composer.json"
	// DefaultVendorDir is the vendor directory Composer uses when
	// config.vendor-dir is unset.
	DefaultVendorDir = "vendor"
)

// ErrNoPackageName is returned when an installed package record has no name.
var ErrNoPackageName = errors.New("package record has no name")

// Root is the decoded root manifest.
type Root struct {
	Package Package
	// VendorDir is config.vendor-dir as written, empty when unset.
	VendorDir string
}

// InstalledPath returns the location of installed.json for a vendor dir.
func InstalledPath(vendorDir types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Join(string(vendorDir), "composer", "installed.json"))
}

// ReadRoot decodes the composer.json at path.
func ReadRoot(path types.FilesystemPath) (*Root, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := DecodeRoot(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return root, nil
}

// DecodeRoot decodes a root manifest. The root package keeps an empty
// InstallPath; its location is the project base directory.
func DecodeRoot(r io.Reader) (*Root, error) {
	v, err := tree.DecodeJSON(r)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*tree.Map)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", v.Kind())
	}

	pkg, err := packageFromTree(m)
	if err != nil {
		return nil, err
	}
	pkg.IsRoot = true
	if pkg.Name == "" {
		pkg.Name = "__root__"
	}
	if pkg.PrettyVersion == "" {
		pkg.PrettyVersion = DefaultRootVersion
		pkg.Version = NormalizeVersion(DefaultRootVersion)
	}

	root := &Root{Package: pkg}
	if cfg, ok := getMap(m, "config"); ok {
		root.VendorDir = getString(cfg, "vendor-dir")
	}
	return root, nil
}

// ReadInstalled decodes an installed.json file. Relative install-path entries
// are resolved against the directory holding the file.
func ReadInstalled(path types.FilesystemPath) ([]Package, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pkgs, err := DecodeInstalled(f, types.FilesystemPath(filepath.Dir(string(path))))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return pkgs, nil
}

// DecodeInstalled decodes installed package records in either layout.
// installDir anchors relative install-path values.
func DecodeInstalled(r io.Reader, installDir types.FilesystemPath) ([]Package, error) {
	v, err := tree.DecodeJSON(r)
	if err != nil {
		return nil, err
	}

	var records tree.Seq
	switch t := v.(type) {
	case tree.Seq:
		records = t
	case *tree.Map:
		raw, ok := t.Get("packages")
		if !ok {
			return nil, errors.New(`missing "packages" list`)
		}
		if records, ok = raw.(tree.Seq); !ok {
			return nil, fmt.Errorf(`"packages" must be a list, got %s`, raw.Kind())
		}
	default:
		return nil, fmt.Errorf("expected a list or an object, got %s", v.Kind())
	}

	pkgs := make([]Package, 0, len(records))
	for i, rec := range records {
		m, ok := rec.(*tree.Map)
		if !ok {
			return nil, fmt.Errorf("packages[%d]: expected an object, got %s", i, rec.Kind())
		}
		pkg, err := packageFromTree(m)
		if err != nil {
			return nil, fmt.Errorf("packages[%d]: %w", i, err)
		}
		if pkg.Name == "" {
			return nil, fmt.Errorf("packages[%d]: %w", i, ErrNoPackageName)
		}
		if ip := getString(m, "install-path"); ip != "" {
			p := filepath.FromSlash(ip)
			if !filepath.IsAbs(p) {
				p = filepath.Join(string(installDir), p)
			}
			pkg.InstallPath = types.FilesystemPath(filepath.Clean(p))
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

func packageFromTree(m *tree.Map) (Package, error) {
	pretty := getString(m, "name")
	pkg := Package{
		Name:          strings.ToLower(pretty),
		PrettyName:    pretty,
		PrettyVersion: getString(m, "version"),
		Version:       getString(m, "version_normalized"),
		Type:          getString(m, "type"),
		DefaultBranch: getBool(m, "default-branch"),
	}
	if pkg.Type == "" {
		pkg.Type = DefaultType
	}
	if pkg.Version == "" && pkg.PrettyVersion != "" {
		pkg.Version = NormalizeVersion(pkg.PrettyVersion)
	}
	if src, ok := getMap(m, "source"); ok {
		pkg.SourceReference = getString(src, "reference")
	}
	if dist, ok := getMap(m, "dist"); ok {
		pkg.DistReference = getString(dist, "reference")
	}

	if raw, ok := m.Get("autoload"); ok {
		al, err := autoloadFromTree(raw)
		if err != nil {
			return Package{}, err
		}
		pkg.Autoload = al
	}

	if extra, ok := getMap(m, "extra"); ok {
		pkg.Extra = extra
	} else {
		pkg.Extra = tree.NewMap()
	}

	if req, ok := getMap(m, "require"); ok {
		pkg.Requires = req.Keys()
	}
	return pkg, nil
}

func getString(m *tree.Map, key string) string {
	v, _ := m.Get(key)
	s, _ := v.(tree.String)
	return string(s)
}

func getBool(m *tree.Map, key string) bool {
	v, _ := m.Get(key)
	b, _ := v.(tree.Bool)
	return bool(b)
}

func getMap(m *tree.Map, key string) (*tree.Map, bool) {
	v, _ := m.Get(key)
	sub, ok := v.(*tree.Map)
	return sub, ok
}
