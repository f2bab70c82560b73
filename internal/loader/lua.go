// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/extcfg/extcfg/pkg/tree"
)

// ErrLuaValue is returned for Lua values that have no configuration
// equivalent (userdata, threads, Go functions).
var ErrLuaValue = errors.New("unsupported lua value")

// Lua loads .lua contributions: the chunk is executed with the standard
// libraries and must return a table. Functions defined in the file are kept
// as expressions holding their source text. Lua tables have no key order, so
// map keys come out sorted.
type Lua struct {
	// Args are passed to the chunk and are visible through "...".
	Args []string
}

// Extensions implements Loader.
func (Lua) Extensions() []string { return []string{".lua"} }

// Load implements Loader.
func (l Lua) Load(path string, data []byte) (tree.Value, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	if err := state.Load(bytes.NewReader(data), "@"+path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	for _, a := range l.Args {
		state.PushString(a)
	}
	if err := state.ProtectedCall(len(l.Args), 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	conv := luaConverter{state: state, lines: strings.Split(string(data), "\n")}
	v, err := conv.value(-1, 0)
	state.Pop(1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

type luaConverter struct {
	state *lua.State
	lines []string
}

// maxTableDepth bounds recursion through self-referencing tables.
const maxTableDepth = 64

func (c luaConverter) value(index, depth int) (tree.Value, error) {
	s := c.state
	switch s.TypeOf(index) {
	case lua.TypeNil, lua.TypeNone:
		return tree.Null{}, nil
	case lua.TypeBoolean:
		return tree.Bool(s.ToBoolean(index)), nil
	case lua.TypeNumber:
		n, _ := s.ToNumber(index)
		return luaNumber(n), nil
	case lua.TypeString:
		str, _ := s.ToString(index)
		return tree.String(str), nil
	case lua.TypeTable:
		if depth >= maxTableDepth {
			return nil, errors.New("table nesting too deep")
		}
		return c.table(index, depth+1)
	case lua.TypeFunction:
		return c.function(index)
	default:
		return nil, fmt.Errorf("%w: %s", ErrLuaValue, lua.TypeNameOf(s, index))
	}
}

func luaNumber(n float64) tree.Value {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return tree.Int(int64(n))
	}
	return tree.Float(n)
}

// table converts the table at index. A table whose keys are exactly 1..n is
// a sequence; anything else is a mapping with stringified keys.
func (c luaConverter) table(index, depth int) (tree.Value, error) {
	s := c.state
	index = s.AbsIndex(index)

	keys := map[string]bool{}
	isArray := true
	maxIndex, count := 0, 0
	s.PushNil()
	for s.Next(index) {
		// Converting a numeric key in place would break Next, so read
		// numbers with ToNumber and strings with ToString only.
		switch s.TypeOf(-2) {
		case lua.TypeNumber:
			n, _ := s.ToNumber(-2)
			if n == math.Trunc(n) && n > 0 {
				count++
				maxIndex = max(maxIndex, int(n))
			} else {
				isArray = false
			}
			keys[strconv.FormatFloat(n, 'f', -1, 64)] = true
		case lua.TypeString:
			k, _ := s.ToString(-2)
			keys[k] = true
			isArray = false
		default:
			name := lua.TypeNameOf(s, -2)
			s.Pop(2)
			return nil, fmt.Errorf("%w: table key of type %s", ErrLuaValue, name)
		}
		s.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		seq := make(tree.Seq, 0, count)
		for i := 1; i <= count; i++ {
			s.RawGetInt(index, i)
			v, err := c.value(-1, depth)
			s.Pop(1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	slices.Sort(sorted)

	m := tree.NewMap()
	for _, k := range sorted {
		if n, err := strconv.ParseFloat(k, 64); err == nil && strconv.FormatFloat(n, 'f', -1, 64) == k {
			s.PushNumber(n)
			s.RawGet(index)
			// A string key spelled like a number shadows nothing: fall back
			// to the string lookup when the numeric one is empty.
			if s.IsNil(-1) {
				s.Pop(1)
				s.Field(index, k)
			}
		} else {
			s.Field(index, k)
		}
		v, err := c.value(-1, depth)
		s.Pop(1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		m.Set(k, v)
	}
	if e, ok := tree.AsExpr(m); ok {
		return e, nil
	}
	return m, nil
}

// function recovers the source text of a Lua function from the lines of the
// file that defined it.
func (c luaConverter) function(index int) (tree.Value, error) {
	s := c.state
	s.PushValue(index)
	d, ok := lua.Info(s, ">S", nil)
	if !ok || d.What != "Lua" || d.LineDefined <= 0 || d.LastLineDefined > len(c.lines) {
		return nil, fmt.Errorf("%w: function without recoverable source", ErrLuaValue)
	}

	text := strings.Join(c.lines[d.LineDefined-1:d.LastLineDefined], "\n")
	if i := strings.Index(text, "function"); i >= 0 {
		text = text[i:]
	}
	if i := strings.LastIndex(text, "end"); i >= 0 {
		text = text[:i+len("end")]
	}
	return tree.Expr(text), nil
}
