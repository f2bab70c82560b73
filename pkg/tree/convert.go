// SPDX-License-Identifier: MPL-2.0

package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"
)

// ExprKey is the reserved key marking an executable expression in formats that
// have no native way to express one: a mapping whose only entry is ExprKey with
// a string value decodes to an Expr.
const ExprKey = "$expr"

// AsExpr reports whether m is the {"$expr": "<source>"} form and returns the
// expression it denotes.
func AsExpr(m *Map) (Expr, bool) {
	if m.Len() != 1 {
		return "", false
	}
	v, ok := m.Get(ExprKey)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	if !ok {
		return "", false
	}
	return Expr(s), true
}

// FromAny converts plain Go data (as produced by encoding/json, TOML or YAML
// decoders into any) into a Value. Keys of Go maps are sorted since Go maps
// carry no order. Values of unknown types that implement fmt.Stringer become
// strings; anything else is formatted with %v.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null{}
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case int:
		return Int(t)
	case int8:
		return Int(t)
	case int16:
		return Int(t)
	case int32:
		return Int(t)
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(t)
	case uint16:
		return Int(t)
	case uint32:
		return Int(t)
	case uint64:
		return fromUint(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		f, _ := t.Float64()
		return Float(f)
	case time.Time:
		return String(t.Format(time.RFC3339Nano))
	case []any:
		out := make(Seq, len(t))
		for i, e := range t {
			out[i] = FromAny(e)
		}
		return out
	case map[string]any:
		m := NewMap()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			m.Set(k, FromAny(t[k]))
		}
		if e, ok := AsExpr(m); ok {
			return e
		}
		return m
	case fmt.Stringer:
		return String(t.String())
	}
	return fromReflect(reflect.ValueOf(x))
}

// fromReflect handles typed slices and maps that do not match the fast paths.
func fromReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make(Seq, rv.Len())
		for i := range rv.Len() {
			out[i] = FromAny(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, FromAny(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()))
		}
		return m
	case reflect.Pointer:
		if rv.IsNil() {
			return Null{}
		}
		return FromAny(rv.Elem().Interface())
	}
	return String(fmt.Sprint(rv.Interface()))
}

// ToAny converts a Value into plain Go data. Maps become map[string]any and
// Expr nodes become {"$expr": source} maps so the result survives a JSON
// encoding.
func ToAny(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Int:
		return int64(t)
	case Float:
		return float64(t)
	case String:
		return string(t)
	case Expr:
		return map[string]any{ExprKey: string(t)}
	case Seq:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = ToAny(e)
		}
		return out
	case *Map:
		out := make(map[string]any, t.Len())
		for k, e := range t.All() {
			out[k] = ToAny(e)
		}
		return out
	}
	return nil
}

// fromUint keeps integers that fit in Int and widens larger ones to Float.
func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(u)
	}
	return Int(u)
}
