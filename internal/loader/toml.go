// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/extcfg/extcfg/pkg/tree"
)

// pathSep joins key paths in tomlOrder; it cannot occur in a decoded key.
const pathSep = "\x00"

type (
	// TOML loads .toml contributions. Tables keep their document key order,
	// including tables reopened through dotted keys. Dates and times become
	// strings.
	TOML struct{}

	// tomlOrder records, per table path, the order in which keys first
	// appear in the document.
	tomlOrder struct {
		keys map[string][]string
		seen map[string]bool
	}
)

// Extensions implements Loader.
func (TOML) Extensions() []string { return []string{".toml"} }

// Load implements Loader.
func (TOML) Load(path string, data []byte) (tree.Value, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", path, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	order, err := tomlKeyOrder(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return order.apply(tree.FromAny(raw), nil), nil
}

// tomlKeyOrder walks the document expressions and records key order.
func tomlKeyOrder(data []byte) (*tomlOrder, error) {
	o := &tomlOrder{keys: map[string][]string{}, seen: map[string]bool{}}

	var p unstable.Parser
	p.Reset(data)
	var table []string
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table, unstable.ArrayTable:
			table = keyPath(nil, expr.Key())
			o.add(table)
		case unstable.KeyValue:
			o.addKeyValue(table, expr)
		}
	}
	return o, p.Error()
}

func keyPath(parent []string, it unstable.Iterator) []string {
	path := slices.Clone(parent)
	for it.Next() {
		path = append(path, string(it.Node().Data))
	}
	return path
}

// add records every step of path that was not seen before.
func (o *tomlOrder) add(path []string) {
	for i := range path {
		id := strings.Join(path[:i+1], pathSep)
		if o.seen[id] {
			continue
		}
		o.seen[id] = true
		parent := strings.Join(path[:i], pathSep)
		o.keys[parent] = append(o.keys[parent], path[i])
	}
}

func (o *tomlOrder) addKeyValue(table []string, kv *unstable.Node) {
	path := keyPath(table, kv.Key())
	o.add(path)
	o.addValue(path, kv.Value())
}

// addValue descends into inline tables. Array elements share the path of
// their array.
func (o *tomlOrder) addValue(path []string, v *unstable.Node) {
	switch v.Kind {
	case unstable.InlineTable:
		it := v.Children()
		for it.Next() {
			o.addKeyValue(path, it.Node())
		}
	case unstable.Array:
		it := v.Children()
		for it.Next() {
			o.addValue(path, it.Node())
		}
	}
}

// apply rebuilds v with map keys in recorded order. Keys without a recorded
// position keep their relative order after the recorded ones.
func (o *tomlOrder) apply(v tree.Value, path []string) tree.Value {
	switch t := v.(type) {
	case *tree.Map:
		out := tree.NewMap()
		for _, k := range o.keys[strings.Join(path, pathSep)] {
			if child, ok := t.Get(k); ok {
				out.Set(k, o.apply(child, append(slices.Clip(path), k)))
			}
		}
		for k, child := range t.All() {
			if _, ok := out.Get(k); !ok {
				out.Set(k, o.apply(child, append(slices.Clip(path), k)))
			}
		}
		return out
	case tree.Seq:
		out := make(tree.Seq, len(t))
		for i, e := range t {
			out[i] = o.apply(e, path)
		}
		return out
	}
	return v
}
