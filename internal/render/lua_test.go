// SPDX-License-Identifier: MPL-2.0

package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extcfg/extcfg/internal/loader"
	"github.com/extcfg/extcfg/pkg/tree"
)

func TestLua_Render(t *testing.T) {
	t.Parallel()

	section := tree.MapOf(
		"@vendor", "<base-dir>/vendor",
		"end", "reserved",
		"plain_key", "tab\there \"q\" \x01",
		"list", []any{1, 2.0},
		"fn", tree.Expr("function(c) return c end"),
	)

	got, err := Lua{}.Render(section, Layout{Absolute: "/srv/app"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `local baseDir = ... or "/srv/app"

return {
  ["@vendor"] = baseDir .. "/vendor",
  ["end"] = "reserved",
  plain_key = "tab\there \"q\" \001",
  list = {
    1,
    2.0,
  },
  fn = function(c) return c end,
}
`
	if string(got) != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestLua_BaseDirFallback(t *testing.T) {
	t.Parallel()

	got := luaBaseDir(Layout{Depth: 2})
	if !strings.Contains(got, "for _ = 1, 3 do") {
		t.Errorf("luaBaseDir() should strip the file name plus two directories:\n%s", got)
	}
	if !strings.HasPrefix(got, "local baseDir = ...\n") {
		t.Errorf("luaBaseDir() should prefer the chunk argument:\n%s", got)
	}
}

// TestLua_RoundTrip loads a rendered artifact back and compares it with the
// section it was rendered from, placeholders resolved against the base dir.
func TestLua_RoundTrip(t *testing.T) {
	t.Parallel()

	section := tree.MapOf(
		"aliases", tree.MapOf(
			"@vendor", "<base-dir>/vendor",
			"@Acme/Pkg", "<base-dir>/vendor/acme/pkg/src",
			"@Shared", "/opt/shared/src",
		),
		"components", tree.MapOf(
			"db", tree.MapOf(
				"class", `yii\db\Connection`,
				"dsn", "mysql:host=localhost;dbname=\"app\"\n",
				"port", 3306,
				"ratio", 0.25,
				"enabled", false,
			),
			"cache", tree.MapOf("factory", tree.Expr("function(c)\n    return c:get(\"cache\")\n  end")),
		),
		"params", tree.MapOf("list", []any{"a", tree.MapOf("b", 1)}, "utf8", "héllo"),
	)

	base := "/proj"
	dir := t.TempDir()
	path := filepath.Join(dir, "web.lua")

	data, err := Lua{}.Render(section, Layout{Depth: 2})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	back, err := loader.Lua{Args: []string{base}}.Load(path, data)
	if err != nil {
		t.Fatalf("loading rendered artifact: %v\n%s", err, data)
	}

	want := Resolve(section, base)
	if !tree.Equal(back, want) {
		t.Errorf("round trip = %v\nwant %v\nartifact:\n%s", tree.ToAny(back), tree.ToAny(want), data)
	}
}

func TestLuaString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", `""`},
		{`a\b`, `"a\\b"`},
		{"line\r\n", `"line\r\n"`},
		{"\x7f\x00", `"\127\000"`},
		{"ünï", `"ünï"`},
	}
	for _, tt := range tests {
		if got := luaString(tt.in); got != tt.want {
			t.Errorf("luaString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
