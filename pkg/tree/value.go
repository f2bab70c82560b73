// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"fmt"
	"iter"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// KindNull is the kind of the Null value.
	KindNull Kind = iota
	// KindBool is the kind of Bool values.
	KindBool
	// KindInt is the kind of Int values.
	KindInt
	// KindFloat is the kind of Float values.
	KindFloat
	// KindString is the kind of String values.
	KindString
	// KindExpr is the kind of Expr values.
	KindExpr
	// KindSeq is the kind of Seq values.
	KindSeq
	// KindMap is the kind of *Map values.
	KindMap
)

type (
	// Kind identifies the variant held by a Value.
	Kind int

	// Value is a node of a nested configuration tree.
	// The interface is sealed: only the types declared in this package implement it.
	Value interface {
		Kind() Kind
		isValue()
	}

	// Null is the absent/null scalar.
	Null struct{}

	// Bool is a boolean scalar.
	Bool bool

	// Int is an integer scalar.
	Int int64

	// Float is a floating point scalar.
	Float float64

	// String is a string scalar.
	String string

	// Expr is executable source text embedded in a configuration (for example a
	// factory closure). Renderers emit it verbatim instead of quoting it.
	Expr string

	// Seq is an ordered list of values.
	Seq []Value

	// Map is an insertion-ordered mapping from string keys to values.
	// The zero value is not usable; create maps with NewMap.
	Map struct {
		om *orderedmap.OrderedMap[string, Value]
	}
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Expr) Kind() Kind   { return KindExpr }
func (Seq) Kind() Kind    { return KindSeq }
func (*Map) Kind() Kind   { return KindMap }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Expr) isValue()   {}
func (Seq) isValue()    {}
func (*Map) isValue()   {}

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindExpr:
		return "expr"
	case KindSeq:
		return "seq"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NewMap creates an empty ordered map.
func NewMap() *Map {
	return &Map{om: orderedmap.New[string, Value]()}
}

// MapOf builds a map from alternating key/value arguments. It panics when the
// arguments are not key/value pairs; it is intended for literals in code and tests.
func MapOf(kv ...any) *Map {
	if len(kv)%2 != 0 {
		panic("tree.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("tree.MapOf: key %v is not a string", kv[i]))
		}
		m.Set(key, FromAny(kv[i+1]))
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil || m.om == nil {
		return nil, false
	}
	return m.om.Get(key)
}

// Set stores v under key. Existing keys keep their position.
func (m *Map) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	m.om.Set(key, v)
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	_, ok := m.om.Delete(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil || m.om == nil {
			return
		}
		for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Clone returns a deep copy of v. Scalars are immutable and returned as is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case Seq:
		out := make(Seq, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case *Map:
		out := NewMap()
		for k, e := range t.All() {
			out.Set(k, Clone(e))
		}
		return out
	default:
		return v
	}
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Equal reports whether a and b hold the same data. Map key order is not
// significant; sequence order is. Int and Float compare equal when they
// denote the same number, since some formats do not distinguish them.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Float:
			return float64(x) == float64(y)
		}
		return false
	case Float:
		switch y := b.(type) {
		case Float:
			return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
		case Int:
			return float64(x) == float64(y)
		}
		return false
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Expr:
		y, ok := b.(Expr)
		return ok && x == y
	case Seq:
		y, ok := b.(Seq)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}
