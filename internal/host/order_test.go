// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"slices"
	"testing"

	"github.com/extcfg/extcfg/internal/config"
	"github.com/extcfg/extcfg/internal/dag"
	"github.com/extcfg/extcfg/pkg/manifest"
)

func pkg(name string, requires ...string) manifest.Package {
	return manifest.Package{Name: name, Requires: requires}
}

func TestOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pkgs []manifest.Package
		mode config.OrderMode
		want []string
	}{
		{
			name: "dependencies first",
			pkgs: []manifest.Package{pkg("a/ext", "a/http"), pkg("a/http", "a/log"), pkg("a/log")},
			mode: config.OrderDependency,
			want: []string{"a/log", "a/http", "a/ext"},
		},
		{
			name: "independent packages keep installed order",
			pkgs: []manifest.Package{pkg("z/one"), pkg("a/two"), pkg("m/three")},
			mode: config.OrderDependency,
			want: []string{"z/one", "a/two", "m/three"},
		},
		{
			name: "platform and missing requirements ignored",
			pkgs: []manifest.Package{pkg("a/ext", "php", "ext-json", "a/missing"), pkg("a/lib")},
			mode: config.OrderDependency,
			want: []string{"a/ext", "a/lib"},
		},
		{
			name: "requirement names are case-insensitive",
			pkgs: []manifest.Package{pkg("a/ext", "A/Lib"), pkg("a/lib")},
			mode: config.OrderDependency,
			want: []string{"a/lib", "a/ext"},
		},
		{
			name: "installed mode",
			pkgs: []manifest.Package{pkg("a/ext", "a/lib"), pkg("a/lib")},
			mode: config.OrderInstalled,
			want: []string{"a/ext", "a/lib"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Order(tt.pkgs, tt.mode)
			if err != nil {
				t.Fatalf("Order() error = %v", err)
			}
			if gotNames := names(got); !slices.Equal(gotNames, tt.want) {
				t.Errorf("Order() = %v, want %v", gotNames, tt.want)
			}
		})
	}
}

func TestOrder_CycleFallsBackToInstalledOrder(t *testing.T) {
	t.Parallel()

	pkgs := []manifest.Package{pkg("a/one", "a/two"), pkg("a/two", "a/one"), pkg("a/free")}
	got, err := Order(pkgs, config.OrderDependency)

	if !errors.Is(err, dag.ErrCycle) {
		t.Fatalf("Order() error = %v, want dag.ErrCycle", err)
	}
	var cycle *dag.CycleError
	if !errors.As(err, &cycle) || !slices.Equal(cycle.Cycle, []string{"a/one", "a/two"}) {
		t.Errorf("cycle = %v", cycle)
	}
	if gotNames := names(got); !slices.Equal(gotNames, []string{"a/one", "a/two", "a/free"}) {
		t.Errorf("Order() = %v, want the installed order", gotNames)
	}
}

func TestOrder_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	pkgs := []manifest.Package{pkg("a/ext", "a/lib"), pkg("a/lib")}
	if _, err := Order(pkgs, config.OrderDependency); err != nil {
		t.Fatal(err)
	}
	if pkgs[0].Name != "a/ext" {
		t.Error("Order() reordered its input")
	}
}

func TestPlaceRoot(t *testing.T) {
	t.Parallel()

	pkgs := []manifest.Package{pkg("a/one"), pkg("a/two")}
	root := manifest.Package{Name: "app/root", IsRoot: true}

	if got := names(PlaceRoot(pkgs, root, config.RootLast)); !slices.Equal(got, []string{"a/one", "a/two", "app/root"}) {
		t.Errorf("PlaceRoot(last) = %v", got)
	}
	if got := names(PlaceRoot(pkgs, root, config.RootFirst)); !slices.Equal(got, []string{"app/root", "a/one", "a/two"}) {
		t.Errorf("PlaceRoot(first) = %v", got)
	}
	if got := names(PlaceRoot(nil, root, config.RootLast)); !slices.Equal(got, []string{"app/root"}) {
		t.Errorf("PlaceRoot(empty) = %v", got)
	}
}
