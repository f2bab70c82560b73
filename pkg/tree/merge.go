// SPDX-License-Identifier: MPL-2.0

package tree

import "strconv"

// Merge folds every map-typed source into target from left to right and
// returns the result. Non-map sources are skipped. The arguments are never
// modified.
//
// Merge(a) returns a copy of a, and Merge(a, b, c) equals Merge(Merge(a, b), c).
func Merge(target Value, sources ...Value) Value {
	res := Clone(target)
	for _, src := range sources {
		sm, ok := src.(*Map)
		if !ok {
			continue
		}
		dst, ok := res.(*Map)
		if !ok {
			dst = NewMap()
		}
		mergeMap(dst, sm)
		res = dst
	}
	return res
}

// MergeMaps is Merge specialised to maps. A nil target starts empty.
func MergeMaps(target *Map, sources ...*Map) *Map {
	dst := NewMap()
	if target != nil {
		dst = Clone(target).(*Map)
	}
	for _, src := range sources {
		if src != nil {
			mergeMap(dst, src)
		}
	}
	return dst
}

// mergeMap merges src into dst in place. dst must be owned by the caller.
func mergeMap(dst, src *Map) {
	for k, incoming := range src.All() {
		existing, ok := dst.Get(k)
		if !ok {
			dst.Set(k, Clone(incoming))
			continue
		}
		dst.Set(k, mergeValue(existing, incoming))
	}
}

// mergeValue combines an owned existing value with an incoming one. A
// mapping and a sequence are both containers: an empty incoming container
// keeps the existing one, otherwise the sequence is merged under its index
// keys.
func mergeValue(existing, incoming Value) Value {
	switch in := incoming.(type) {
	case *Map:
		switch ex := existing.(type) {
		case *Map:
			mergeMap(ex, in)
			return ex
		case Seq:
			if in.Len() == 0 {
				return ex
			}
			m := indexedMap(ex)
			mergeMap(m, in)
			return m
		}
	case Seq:
		switch ex := existing.(type) {
		case Seq:
			return appendSeq(ex, in)
		case *Map:
			appendIndexed(ex, in)
			return ex
		}
	}
	return Clone(incoming)
}

// appendSeq merges list-like fragments: a position that already holds a
// non-null value gets the incoming element appended at the end instead of
// being overwritten.
func appendSeq(dst, src Seq) Seq {
	for i, v := range src {
		if i < len(dst) && IsNull(dst[i]) {
			dst[i] = Clone(v)
			continue
		}
		dst = append(dst, Clone(v))
	}
	return dst
}

// indexedMap turns an owned sequence into a map keyed by element index.
func indexedMap(s Seq) *Map {
	m := NewMap()
	for i, v := range s {
		m.Set(strconv.Itoa(i), v)
	}
	return m
}

// appendIndexed merges the elements of src into dst under their index keys.
// An index that already holds a non-null value gets the element under the
// next free integer key instead.
func appendIndexed(dst *Map, src Seq) {
	next := 0
	for k := range dst.All() {
		if i, err := strconv.Atoi(k); err == nil && i >= next {
			next = i + 1
		}
	}
	for i, v := range src {
		key := strconv.Itoa(i)
		if cur, ok := dst.Get(key); ok && !IsNull(cur) {
			key = strconv.Itoa(next)
		}
		dst.Set(key, Clone(v))
		if i, _ := strconv.Atoi(key); i >= next {
			next = i + 1
		}
	}
}
