// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/extcfg/extcfg/pkg/fspath"
	"github.com/extcfg/extcfg/pkg/tree"
)

const luaIndent = "  "

var luaIdentRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var luaReserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

// Lua renders artifacts as Lua chunks returning a table. The base directory
// is taken from the first chunk argument and otherwise derived from the
// chunk's own file name:
//
//	local baseDir = ...
//	if baseDir == nil then
//	  ...
//	end
//
//	return {
//	  ["@vendor"] = baseDir .. "/vendor",
//	}
//
// Lua tables cannot hold nil, so null entries disappear when the artifact is
// loaded.
type Lua struct{}

// Ext implements Renderer.
func (Lua) Ext() string { return ".lua" }

// Render implements Renderer.
func (Lua) Render(v tree.Value, layout Layout) ([]byte, error) {
	var b strings.Builder
	b.WriteString(luaBaseDir(layout))
	b.WriteString("\nreturn ")
	if err := luaValue(&b, v, 0); err != nil {
		return nil, err
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func luaBaseDir(layout Layout) string {
	if layout.Absolute != "" {
		return "local baseDir = ... or " + luaString(layout.Absolute) + "\n"
	}
	return fmt.Sprintf(`local baseDir = ...
if baseDir == nil then
  baseDir = debug.getinfo(1, "S").source:sub(2)
  for _ = 1, %d do
    baseDir = baseDir:match("^(.*)[/\\]") or "."
  end
end
`, layout.Depth+1)
}

func luaValue(b *strings.Builder, v tree.Value, level int) error {
	switch t := v.(type) {
	case nil, tree.Null:
		b.WriteString("nil")
	case tree.Bool:
		b.WriteString(strconv.FormatBool(bool(t)))
	case tree.Int:
		b.WriteString(strconv.FormatInt(int64(t), 10))
	case tree.Float:
		b.WriteString(luaFloat(float64(t)))
	case tree.String:
		b.WriteString(luaPlaceholderString(string(t)))
	case tree.Expr:
		b.WriteString(string(t))
	case tree.Seq:
		if len(t) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for _, e := range t {
			b.WriteString(strings.Repeat(luaIndent, level+1))
			if err := luaValue(b, e, level+1); err != nil {
				return err
			}
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(luaIndent, level) + "}")
	case *tree.Map:
		if t.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for k, e := range t.All() {
			b.WriteString(strings.Repeat(luaIndent, level+1))
			b.WriteString(luaKey(k))
			b.WriteString(" = ")
			if err := luaValue(b, e, level+1); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
			b.WriteString(",\n")
		}
		b.WriteString(strings.Repeat(luaIndent, level) + "}")
	default:
		return fmt.Errorf("unsupported value %T", v)
	}
	return nil
}

func luaKey(k string) string {
	if luaIdentRe.MatchString(k) && !luaReserved[k] {
		return k
	}
	return "[" + luaString(k) + "]"
}

func luaPlaceholderString(s string) string {
	rest, ok := fspath.HasPlaceholder(s)
	if !ok {
		return luaString(s)
	}
	if rest == "" {
		return "baseDir"
	}
	return "baseDir .. " + luaString(rest)
}

// luaString quotes s as a double-quoted Lua literal. Control bytes use
// decimal escapes; other bytes, including UTF-8 sequences, pass through.
func luaString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func luaFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "(0/0)"
	case math.IsInf(f, 1):
		return "math.huge"
	case math.IsInf(f, -1):
		return "-math.huge"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
