// SPDX-License-Identifier: MPL-2.0

package aggregate

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/extcfg/extcfg/internal/testutil"
	"github.com/extcfg/extcfg/pkg/manifest"
	"github.com/extcfg/extcfg/pkg/tree"
	"github.com/extcfg/extcfg/pkg/types"
)

// newProject returns a locator for a fresh base directory with the vendor
// directory at <base>/vendor.
func newProject(t *testing.T) manifest.Locator {
	t.Helper()
	base := t.TempDir()
	return manifest.Locator{
		Base:   types.FilesystemPath(base),
		Vendor: types.FilesystemPath(filepath.Join(base, "vendor")),
	}
}

// extension returns an installed extension package located at <vendor>/<name>.
func extension(name string, contribs ...string) manifest.Package {
	extra := tree.NewMap()
	if len(contribs) > 0 {
		m := tree.NewMap()
		for i := 0; i+1 < len(contribs); i += 2 {
			m.Set(contribs[i], tree.String(contribs[i+1]))
		}
		extra.Set(manifest.DefaultContributionKey, m)
	}
	return manifest.Package{
		Name:          name,
		Version:       "1.0.0.0",
		PrettyVersion: "1.0.0",
		Type:          DefaultPackageType,
		Extra:         extra,
	}
}

func writePackageFile(t *testing.T, loc manifest.Locator, pkg manifest.Package, rel, content string) {
	t.Helper()
	testutil.MustWriteFile(t, string(loc.Resolve(pkg, rel)), content)
}

func section(t *testing.T, a *Aggregator, name string) *tree.Map {
	t.Helper()
	v, ok := a.Sections().Get(name)
	if !ok {
		t.Fatalf("section %q missing", name)
	}
	return v.(*tree.Map)
}

func TestProcessPackage_LaterPackageWins(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	p1 := extension("acme/one", "params", "config/params.json")
	p2 := extension("acme/two", "params", "config/params.json")
	writePackageFile(t, loc, p1, "config/params.json", `{"@shared": "p1", "only": 1}`)
	writePackageFile(t, loc, p2, "config/params.json", `{"@shared": "p2"}`)

	a := New(loc, Options{})
	for _, pkg := range []manifest.Package{p1, p2} {
		if err := a.ProcessPackage(pkg); err != nil {
			t.Fatalf("ProcessPackage(%s) error = %v", pkg.Name, err)
		}
	}

	want := tree.MapOf("@shared", "p2", "only", 1)
	if got := section(t, a, "params"); !tree.Equal(got, want) {
		t.Errorf("params = %v, want %v", tree.ToAny(got), tree.ToAny(want))
	}
}

func TestProcessPackage_ContributionNotFound(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/broken", "web", "config/web.json")

	err := New(loc, Options{}).ProcessPackage(pkg)
	if !errors.Is(err, ErrContributionNotFound) {
		t.Fatalf("ProcessPackage() error = %v, want ErrContributionNotFound", err)
	}

	var nf *ContributionNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error type = %T, want *ContributionNotFoundError", err)
	}
	if nf.Package != "acme/broken" || nf.Contribution != "web" {
		t.Errorf("error = %+v", nf)
	}
	if want := loc.Resolve(pkg, "config/web.json"); nf.Path != want {
		t.Errorf("Path = %s, want %s", nf.Path, want)
	}
}

func TestProcessPackage_InjectsPackageAliases(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/pkg", "web", "config/web.json")
	pkg.Autoload = manifest.Autoload{manifest.PSR4: {
		{Namespace: `Acme\Pkg\`, Paths: []string{"src/"}},
		{Namespace: `Acme\Own\`, Paths: []string{"own/"}},
	}}
	writePackageFile(t, loc, pkg, "config/web.json", `{"aliases": {"@Acme/Own": "@app/own"}, "id": "web"}`)

	a := New(loc, Options{})
	if err := a.ProcessPackage(pkg); err != nil {
		t.Fatalf("ProcessPackage() error = %v", err)
	}

	wantWeb := tree.MapOf(
		"aliases", tree.MapOf(
			"@Acme/Pkg", "<base-dir>/vendor/acme/pkg/src",
			"@Acme/Own", "@app/own",
		),
		"id", "web",
	)
	if got := section(t, a, "web"); !tree.Equal(got, wantWeb) {
		t.Errorf("web = %v, want %v", tree.ToAny(got), tree.ToAny(wantWeb))
	}

	// The aliases section keeps the derived value, not the file's override.
	wantAliases := tree.MapOf(
		"@Acme/Pkg", "<base-dir>/vendor/acme/pkg/src",
		"@Acme/Own", "<base-dir>/vendor/acme/pkg/own",
	)
	if got := section(t, a, SectionAliases); !tree.Equal(got, wantAliases) {
		t.Errorf("aliases = %v, want %v", tree.ToAny(got), tree.ToAny(wantAliases))
	}
}

func TestProcessPackage_AliasesLaterPackageWins(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	shared := manifest.Autoload{manifest.PSR4: {{Namespace: `Shared\`, Paths: []string{"src"}}}}

	p1 := extension("acme/one")
	p1.Autoload = shared
	p2 := extension("acme/two")
	p2.Autoload = shared
	p2.InstallPath = types.FilesystemPath(filepath.Join(string(loc.Base), "packages", "two"))
	root := manifest.Package{Name: "acme/app", IsRoot: true, Type: DefaultPackageType, Autoload: shared}

	tests := []struct {
		name string
		pkgs []manifest.Package
		want string
	}{
		{"second dependency wins", []manifest.Package{p1, p2}, "<base-dir>/packages/two/src"},
		{"processing order decides", []manifest.Package{p2, p1}, "<base-dir>/vendor/acme/one/src"},
		{"root overrides dependencies", []manifest.Package{p1, p2, root}, "<base-dir>/src"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := New(loc, Options{})
			for _, pkg := range tt.pkgs {
				if err := a.ProcessPackage(pkg); err != nil {
					t.Fatalf("ProcessPackage(%s) error = %v", pkg.Name, err)
				}
			}

			aliases := section(t, a, SectionAliases)
			if aliases.Len() != 1 {
				t.Errorf("aliases = %v, want a single entry", tree.ToAny(aliases))
			}
			got, _ := aliases.Get("@Shared")
			if !tree.Equal(got, tree.String(tt.want)) {
				t.Errorf("@Shared = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestProcessPackage_NoAliasesNoInjection(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/plain", "web", "web.json")
	writePackageFile(t, loc, pkg, "web.json", `{"id": "web"}`)

	a := New(loc, Options{})
	if err := a.ProcessPackage(pkg); err != nil {
		t.Fatalf("ProcessPackage() error = %v", err)
	}
	if got := section(t, a, "web"); !tree.Equal(got, tree.MapOf("id", "web")) {
		t.Errorf("web = %v, want {id: web}", tree.ToAny(got))
	}
}

func TestProcessPackage_SkipsUnrelatedPackages(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	lib := manifest.Package{
		Name:     "acme/lib",
		Version:  "2.0.0.0",
		Type:     manifest.DefaultType,
		Extra:    tree.NewMap(),
		Autoload: manifest.Autoload{manifest.PSR4: {{Namespace: `Lib\`, Paths: []string{"src"}}}},
	}

	a := New(loc, Options{})
	if err := a.ProcessPackage(lib); err != nil {
		t.Fatalf("ProcessPackage() error = %v", err)
	}
	if exts := a.Extensions(); len(exts) != 0 {
		t.Errorf("Extensions() = %v, want none", exts)
	}
	if got := section(t, a, SectionAliases); got.Len() != 0 {
		t.Errorf("aliases = %v, want empty", tree.ToAny(got))
	}
}

func TestProcessPackage_LibraryWithContributions(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/lib", "params", "params.json")
	pkg.Type = manifest.DefaultType
	writePackageFile(t, loc, pkg, "params.json", `{"k": true}`)

	a := New(loc, Options{})
	if err := a.ProcessPackage(pkg); err != nil {
		t.Fatalf("ProcessPackage() error = %v", err)
	}
	if exts := a.Extensions(); len(exts) != 1 || exts[0].Name != "acme/lib" {
		t.Errorf("Extensions() = %v, want [acme/lib]", exts)
	}
}

func TestProcessPackage_Reference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		version   string
		source    string
		dist      string
		wantRef   string
		wantField bool
	}{
		{"release has no reference", "1.0.0.0", "abc", "def", "", false},
		{"dev uses source", manifest.DevVersion, "abc", "def", "abc", true},
		{"dev falls back to dist", manifest.DevVersion, "", "def", "def", true},
		{"dev without references", manifest.DevVersion, "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg := extension("acme/ext")
			pkg.Version = tt.version
			pkg.SourceReference = tt.source
			pkg.DistReference = tt.dist

			a := New(newProject(t), Options{})
			if err := a.ProcessPackage(pkg); err != nil {
				t.Fatalf("ProcessPackage() error = %v", err)
			}

			exts := section(t, a, SectionExtensions)
			rec, _ := exts.Get("acme/ext")
			ref, ok := rec.(*tree.Map).Get("reference")
			if ok != tt.wantField {
				t.Fatalf("reference present = %v, want %v", ok, tt.wantField)
			}
			if ok && !tree.Equal(ref, tree.String(tt.wantRef)) {
				t.Errorf("reference = %v, want %s", ref, tt.wantRef)
			}
			if got := a.Extensions()[0].Reference; got != tt.wantRef {
				t.Errorf("Extensions()[0].Reference = %q, want %q", got, tt.wantRef)
			}
		})
	}
}

func TestProcessPackage_InvalidSectionName(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/evil", "../escape", "x.json")
	writePackageFile(t, loc, pkg, "x.json", `{}`)

	a := New(loc, Options{})
	err := a.ProcessPackage(pkg)
	if !errors.Is(err, ErrInvalidSectionName) {
		t.Fatalf("ProcessPackage() error = %v, want ErrInvalidSectionName", err)
	}
	if len(a.Extensions()) != 0 {
		t.Error("package was recorded despite the invalid section name")
	}
}

func TestProcessPackage_LoadErrorIsWrapped(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/bad", "web", "web.json")
	writePackageFile(t, loc, pkg, "web.json", `{"unterminated": `)

	err := New(loc, Options{}).ProcessPackage(pkg)
	var ce *ContributionError
	if !errors.As(err, &ce) {
		t.Fatalf("ProcessPackage() error = %v, want *ContributionError", err)
	}
	if ce.Contribution != "web" {
		t.Errorf("Contribution = %q, want web", ce.Contribution)
	}
}

func TestNew_SeedVendorAlias(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	a := New(loc, Options{SeedVendorAlias: true})

	want := tree.MapOf(VendorAlias, "<base-dir>/vendor")
	if got := section(t, a, SectionAliases); !tree.Equal(got, want) {
		t.Errorf("aliases = %v, want %v", tree.ToAny(got), tree.ToAny(want))
	}
}

func TestSections_Order(t *testing.T) {
	t.Parallel()

	loc := newProject(t)
	pkg := extension("acme/ext", "web", "web.json", "console", "console.json", "aliases", "aliases.json")
	writePackageFile(t, loc, pkg, "web.json", `{}`)
	writePackageFile(t, loc, pkg, "console.json", `{}`)
	writePackageFile(t, loc, pkg, "aliases.json", `{"@extra": "/x"}`)

	a := New(loc, Options{SeedVendorAlias: true})
	if err := a.ProcessPackage(pkg); err != nil {
		t.Fatalf("ProcessPackage() error = %v", err)
	}

	sections := a.Sections()
	if keys := sections.Keys(); !slices.Equal(keys, []string{SectionExtensions, SectionAliases, "web", "console"}) {
		t.Errorf("Sections() keys = %v", keys)
	}
	aliases, _ := sections.Get(SectionAliases)
	if v, ok := aliases.(*tree.Map).Get("@extra"); !ok || !tree.Equal(v, tree.String("/x")) {
		t.Errorf("contributed aliases not merged into the aliases section: %v", tree.ToAny(aliases))
	}

	// Sections returns a copy.
	web, _ := sections.Get("web")
	web.(*tree.Map).Set("mutated", tree.Bool(true))
	if got := section(t, a, "web"); got.Len() != 0 {
		t.Error("Sections() exposed internal state")
	}
}

func TestValidSectionName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"web", true},
		{"params-console", true},
		{"", false},
		{".", false},
		{"..", false},
		{"a/b", false},
		{`a\b`, false},
	}
	for _, tt := range tests {
		if got := ValidSectionName(tt.name); got != tt.want {
			t.Errorf("ValidSectionName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
