// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/extcfg/extcfg/pkg/tree"
)

// exprTag marks a YAML scalar as an executable expression:
//
//	factory: !expr fn () => new Db()
const exprTag = "!expr"

// maxAliasDepth bounds alias expansion so that self-referencing anchors fail
// instead of recursing forever.
const maxAliasDepth = 64

// YAML loads .yaml and .yml contributions. Only the first document of a
// stream is read.
type YAML struct{}

// Extensions implements Loader.
func (YAML) Extensions() []string { return []string{".yaml", ".yml"} }

// Load implements Loader.
func (YAML) Load(path string, data []byte) (tree.Value, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return tree.NewMap(), nil
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	v, err := fromYAML(&doc, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func fromYAML(n *yaml.Node, depth int) (tree.Value, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: alias nesting too deep", n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.NewMap(), nil
		}
		return fromYAML(n.Content[0], depth)
	case yaml.AliasNode:
		return fromYAML(n.Alias, depth+1)
	case yaml.SequenceNode:
		seq := make(tree.Seq, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c, depth)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil
	case yaml.MappingNode:
		return yamlMapping(n, depth)
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

func yamlMapping(n *yaml.Node, depth int) (tree.Value, error) {
	m := tree.NewMap()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		if k.ShortTag() == "!!merge" {
			if err := yamlMerge(m, v, depth); err != nil {
				return nil, err
			}
			continue
		}

		val, err := fromYAML(v, depth)
		if err != nil {
			return nil, err
		}
		m.Set(k.Value, val)
	}
	if e, ok := tree.AsExpr(m); ok {
		return e, nil
	}
	return m, nil
}

// yamlMerge applies a "<<" merge key: entries of the referenced mappings are
// added unless the mapping already defines them.
func yamlMerge(dst *tree.Map, v *yaml.Node, depth int) error {
	var sources []*yaml.Node
	if v.Kind == yaml.SequenceNode {
		sources = v.Content
	} else {
		sources = []*yaml.Node{v}
	}

	for _, s := range sources {
		val, err := fromYAML(s, depth+1)
		if err != nil {
			return err
		}
		sm, ok := val.(*tree.Map)
		if !ok {
			return fmt.Errorf("line %d: merge key requires a mapping, got %s", s.Line, val.Kind())
		}
		for k, e := range sm.All() {
			if _, exists := dst.Get(k); !exists {
				dst.Set(k, e)
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (tree.Value, error) {
	switch n.ShortTag() {
	case exprTag:
		return tree.Expr(n.Value), nil
	case "!!null":
		return tree.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return tree.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			var f float64
			if ferr := n.Decode(&f); ferr != nil {
				return nil, err
			}
			return tree.Float(f), nil
		}
		return tree.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return tree.Float(f), nil
	default:
		// !!str, !!timestamp, !!binary and unknown local tags keep their text.
		return tree.String(n.Value), nil
	}
}
