// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"encoding/json"
	"math"
	"slices"
	"testing"
)

func TestMap_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Set("b", Int(1))
	m.Set("a", Int(2))
	m.Set("c", Int(3))
	m.Set("b", Int(4))

	if got := m.Keys(); !slices.Equal(got, []string{"b", "a", "c"}) {
		t.Errorf("Keys() = %v, want [b a c]", got)
	}
	if v, _ := m.Get("b"); !Equal(v, Int(4)) {
		t.Errorf("Get(b) = %v, want 4", v)
	}

	if !m.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if m.Delete("missing") {
		t.Error("Delete(missing) = true, want false")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestMap_SetNilStoresNull(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Set("k", nil)
	v, ok := m.Get("k")
	if !ok || v.Kind() != KindNull {
		t.Errorf("Get(k) = %v, %v, want Null, true", v, ok)
	}
}

func TestNilMap(t *testing.T) {
	t.Parallel()

	var m *Map
	if m.Len() != 0 {
		t.Errorf("nil Len() = %d", m.Len())
	}
	if _, ok := m.Get("x"); ok {
		t.Error("nil Get() reported a value")
	}
	if keys := m.Keys(); len(keys) != 0 {
		t.Errorf("nil Keys() = %v", keys)
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	orig := MapOf("m", MapOf("k", "v"), "s", []any{MapOf("x", 1)})
	cp := Clone(orig).(*Map)

	m, _ := cp.Get("m")
	m.(*Map).Set("k", String("changed"))
	s, _ := cp.Get("s")
	s.(Seq)[0].(*Map).Set("x", Int(2))

	if !Equal(orig, MapOf("m", MapOf("k", "v"), "s", []any{MapOf("x", 1)})) {
		t.Errorf("Clone() shares structure with the original: %v", ToAny(orig))
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil and null", nil, Null{}, true},
		{"int and float", Int(2), Float(2), true},
		{"float and int", Float(2.5), Int(2), false},
		{"nan", Float(math.NaN()), Float(math.NaN()), true},
		{"string and expr", String("x"), Expr("x"), false},
		{"map order ignored", MapOf("a", 1, "b", 2), MapOf("b", 2, "a", 1), true},
		{"seq order matters", Seq{Int(1), Int(2)}, Seq{Int(2), Int(1)}, false},
		{"map size differs", MapOf("a", 1), MapOf("a", 1, "b", 2), false},
		{"bool", Bool(true), Bool(true), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	got := FromAny(map[string]any{
		"z":     json.Number("3"),
		"a":     []any{true, 1.5, nil},
		"fn":    map[string]any{ExprKey: "function () { return 1; }"},
		"typed": []string{"x", "y"},
	})

	m, ok := got.(*Map)
	if !ok {
		t.Fatalf("FromAny() = %T, want *Map", got)
	}
	if keys := m.Keys(); !slices.Equal(keys, []string{"a", "fn", "typed", "z"}) {
		t.Errorf("Keys() = %v, want sorted keys", keys)
	}

	want := MapOf(
		"a", Seq{Bool(true), Float(1.5), Null{}},
		"fn", Expr("function () { return 1; }"),
		"typed", Seq{String("x"), String("y")},
		"z", Int(3),
	)
	if !Equal(m, want) {
		t.Errorf("FromAny() = %v, want %v", ToAny(m), ToAny(want))
	}
}

func TestFromAny_Unsigned(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"small uint", uint(7), Int(7)},
		{"max int64", uint64(math.MaxInt64), Int(math.MaxInt64)},
		{"above max int64", uint64(math.MaxUint64), Float(math.MaxUint64)},
		{"uint32", uint32(math.MaxUint32), Int(math.MaxUint32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FromAny(tt.in)
			if got != tt.want {
				t.Errorf("FromAny(%v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAsExpr(t *testing.T) {
	t.Parallel()

	if _, ok := AsExpr(MapOf(ExprKey, "x", "other", 1)); ok {
		t.Error("AsExpr() accepted a map with extra keys")
	}
	if _, ok := AsExpr(MapOf(ExprKey, 1)); ok {
		t.Error("AsExpr() accepted a non-string expression")
	}
	if e, ok := AsExpr(MapOf(ExprKey, "x")); !ok || e != "x" {
		t.Errorf("AsExpr() = %q, %v, want x, true", e, ok)
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if got := (*Map)(nil).Kind().String(); got != "map" {
		t.Errorf("Kind().String() = %q, want map", got)
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
