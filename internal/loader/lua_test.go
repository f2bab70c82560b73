// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"testing"

	"github.com/extcfg/extcfg/pkg/tree"
)

func TestLua_ChunkArgs(t *testing.T) {
	t.Parallel()

	v, err := Lua{Args: []string{"/proj"}}.Load("args.lua", []byte(`
local base = ...
return { vendor = base .. "/vendor" }
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !tree.Equal(v, tree.MapOf("vendor", "/proj/vendor")) {
		t.Errorf("Load() = %v", tree.ToAny(v))
	}
}

func TestLua_TableShapes(t *testing.T) {
	t.Parallel()

	v, err := Lua{}.Load("shapes.lua", []byte(`
return {
  empty = {},
  sparse = { [1] = "a", [3] = "c" },
  mixed = { "a", key = "b" },
  nested = { { id = 1 }, { id = 2 } },
  expr = { ["$expr"] = "fn () => 1" },
  big = 2^60,
  frac = 0.25,
}
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := tree.MapOf(
		"big", tree.Float(1<<60),
		"empty", tree.NewMap(),
		"expr", tree.Expr("fn () => 1"),
		"frac", 0.25,
		"mixed", tree.MapOf("1", "a", "key", "b"),
		"nested", []any{tree.MapOf("id", 1), tree.MapOf("id", 2)},
		"sparse", tree.MapOf("1", "a", "3", "c"),
	)
	if !tree.Equal(v, want) {
		t.Errorf("Load() = %v\nwant %v", tree.ToAny(v), tree.ToAny(want))
	}
}

func TestLua_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
	}{
		{"go function", `return { f = print }`, ErrLuaValue},
		{"main chunk", `local t = {}; t.self = t; return t`, nil},
		{"syntax error", `return {`, nil},
		{"runtime error", `error("boom")`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Lua{}.Load(tt.name+".lua", []byte(tt.src))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}
