// SPDX-License-Identifier: MPL-2.0

package projecttest

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/extcfg/extcfg/internal/testutil"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
)

type (
	// Project is a project directory under construction.
	Project struct {
		t testing.TB
		// Dir is the absolute project base directory.
		Dir string
		// VendorDir is the vendor directory name relative to Dir.
		VendorDir string

		root      *tree.Map
		installed []*tree.Map
		// Flat writes installed.json as a bare list instead of {"packages": [...]}.
		Flat bool
	}

	// PackageOption configures a package record.
	PackageOption func(*tree.Map)
)

// New returns an empty project rooted at a fresh temporary directory.
func New(t testing.TB) *Project {
	t.Helper()
	return &Project{t: t, Dir: t.TempDir(), VendorDir: manifest.DefaultVendorDir}
}

// Root sets the root package.
func (p *Project) Root(name string, opts ...PackageOption) {
	p.root = record(name, opts)
}

// Install adds an installed package. Unless WithInstallPath is given it is
// located at <vendor>/<name>.
func (p *Project) Install(name string, opts ...PackageOption) {
	rec := record(name, opts)
	if _, ok := rec.Get("version"); !ok {
		rec.Set("version", tree.String("1.0.0"))
	}
	if _, ok := rec.Get("install-path"); !ok {
		rec.Set("install-path", tree.String("../"+name))
	}
	p.installed = append(p.installed, rec)
}

// File writes a file relative to the project directory and returns its path.
func (p *Project) File(rel, content string) string {
	p.t.Helper()
	path := filepath.Join(p.Dir, filepath.FromSlash(rel))
	testutil.MustWriteFile(p.t, path, content)
	return path
}

// PackageFile writes a file inside the default location of an installed package.
func (p *Project) PackageFile(name, rel, content string) string {
	p.t.Helper()
	return p.File(p.VendorDir+"/"+name+"/"+rel, content)
}

// Vendor returns the absolute vendor directory.
func (p *Project) Vendor() string {
	return filepath.Join(p.Dir, filepath.FromSlash(p.VendorDir))
}

// Write writes composer.json and installed.json.
func (p *Project) Write() {
	p.t.Helper()

	root := p.root
	if root == nil {
		root = record("acme/root", nil)
	}
	if p.VendorDir != manifest.DefaultVendorDir {
		root = tree.MergeMaps(root, tree.MapOf("config", tree.MapOf("vendor-dir", p.VendorDir)))
	}
	p.File(manifest.ComposerFile, p.marshal(root))

	var installed tree.Value
	seq := make(tree.Seq, len(p.installed))
	for i, rec := range p.installed {
		seq[i] = rec
	}
	installed = tree.MapOf("packages", seq, "dev", true)
	if p.Flat {
		installed = seq
	}
	testutil.MustWriteFile(p.t, string(manifest.InstalledPath(manifestPath(p.Vendor()))), p.marshal(installed))
}

func (p *Project) marshal(v tree.Value) string {
	p.t.Helper()
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		p.t.Fatalf("failed to encode fixture: %v", err)
	}
	return string(data) + "\n"
}

func record(name string, opts []PackageOption) *tree.Map {
	rec := tree.MapOf("name", name)
	for _, opt := range opts {
		opt(rec)
	}
	return rec
}
