// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/extcfg/extcfg/pkg/cueutil"
	"github.com/extcfg/extcfg/pkg/tree"
)

// exprAttr is the CUE attribute marking a string field as an executable
// expression: factory: "fn () => new Db()" @expr()
const exprAttr = "expr"

// CUE loads .cue contributions. The data must be concrete; regular fields
// are read in declaration order and definitions, hidden and optional fields
// are ignored.
type CUE struct{}

// Extensions implements Loader.
func (CUE) Extensions() []string { return []string{".cue"} }

// Load implements Loader.
func (CUE) Load(path string, data []byte) (tree.Value, error) {
	v, err := cueutil.Compile(data, cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	out, err := fromCUE(v)
	if err != nil {
		return nil, cueutil.FormatError(err, path)
	}
	return out, nil
}

func fromCUE(v cue.Value) (tree.Value, error) {
	if a := v.Attribute(exprAttr); a.Err() == nil {
		s, err := v.String()
		if err != nil {
			return nil, fmt.Errorf("%s: @%s() requires a string: %w", v.Path(), exprAttr, err)
		}
		return tree.Expr(s), nil
	}

	switch v.IncompleteKind() {
	case cue.NullKind:
		return tree.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		return tree.Bool(b), err
	case cue.IntKind:
		i, err := v.Int64()
		return tree.Int(i), err
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		return tree.Float(f), err
	case cue.StringKind:
		s, err := v.String()
		return tree.String(s), err
	case cue.BytesKind:
		b, err := v.Bytes()
		return tree.String(b), err
	case cue.ListKind:
		it, err := v.List()
		if err != nil {
			return nil, err
		}
		seq := tree.Seq{}
		for it.Next() {
			e, err := fromCUE(it.Value())
			if err != nil {
				return nil, err
			}
			seq = append(seq, e)
		}
		return seq, nil
	case cue.StructKind:
		it, err := v.Fields()
		if err != nil {
			return nil, err
		}
		m := tree.NewMap()
		for it.Next() {
			e, err := fromCUE(it.Value())
			if err != nil {
				return nil, err
			}
			m.Set(it.Selector().Unquoted(), e)
		}
		if e, ok := tree.AsExpr(m); ok {
			return e, nil
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%s: unsupported value of kind %s", v.Path(), v.IncompleteKind())
	}
}
