// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"testing"

	"github.com/extcfg/extcfg/pkg/tree"
)

func TestYAML_Scalars(t *testing.T) {
	t.Parallel()

	v, err := YAML{}.Load("scalars.yaml", []byte(`
null_value: ~
hex: 0x1F
float: 1.5e3
inf: .inf
quoted_int: "42"
stamp: 2024-01-02
bool: yes
plain: true
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := tree.MapOf(
		"null_value", nil,
		"hex", 31,
		"float", 1500.0,
		"quoted_int", "42",
		"stamp", "2024-01-02",
		"bool", "yes",
		"plain", true,
	)
	m := v.(*tree.Map)
	inf, _ := m.Get("inf")
	if f, ok := inf.(tree.Float); !ok || f <= 1e308 {
		t.Errorf("inf = %#v, want +Inf", inf)
	}
	m.Delete("inf")
	if !tree.Equal(m, want) {
		t.Errorf("Load() = %v\nwant %v", tree.ToAny(m), tree.ToAny(want))
	}
}

func TestYAML_MergeSequenceAndOverride(t *testing.T) {
	t.Parallel()

	v, err := YAML{}.Load("merge.yaml", []byte(`
a: &a {x: 1, y: 1}
b: &b {y: 2, z: 2}
c:
  x: 0
  <<: [*a, *b]
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c, _ := v.(*tree.Map).Get("c")
	want := tree.MapOf("x", 0, "y", 1, "z", 2)
	if !tree.Equal(c, want) {
		t.Errorf("c = %v, want %v", tree.ToAny(c), tree.ToAny(want))
	}
}

func TestYAML_Errors(t *testing.T) {
	t.Parallel()

	if _, err := (YAML{}).Load("bad.yaml", []byte("a: [1, 2\n")); err == nil {
		t.Error("unterminated flow sequence should fail")
	}
	if _, err := (YAML{}).Load("bad.yaml", []byte("a: &x 1\nb:\n  <<: *x\n")); err == nil {
		t.Error("merging a scalar should fail")
	}
}
