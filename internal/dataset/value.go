// Package dataset parses Naev game-data files into raw entity records and
// typed views. A record is a tree of tagged values mirroring the source
// markup; conversion to concrete column types happens at the emission
// boundary, not here.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindReal
	KindList
	KindMap
)

// String returns a human-readable kind name for error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInt:
		return "integer"
	case KindReal:
		return "real"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a tagged union over the scalar and nested shapes the data files
// can express. The parser stores scalars as text exactly as written;
// numeric conversion happens in the typed decoders so text attributes
// survive byte-identical.
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string
	list []Value
	m    map[string]Value
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Real returns a real value.
func Real(r float64) Value { return Value{kind: KindReal, r: r} }

// List returns a list value.
func List(vs ...Value) Value { return Value{kind: KindList, list: vs} }

// Map returns a map value.
func Map(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// Kind reports which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// AsText returns the value's text form. Scalars always have one.
func (v Value) AsText() (string, bool) {
	switch v.kind {
	case KindText:
		return v.s, true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindReal:
		return strconv.FormatFloat(v.r, 'g', -1, 64), true
	}
	return "", false
}

// AsInt returns the value as an integer if it holds one.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// AsReal returns the value as a float, widening integers.
func (v Value) AsReal() (float64, bool) {
	switch v.kind {
	case KindReal:
		return v.r, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsList returns the value's elements. A non-list value is treated as a
// single-element list, matching markup where one child and many children
// share a tag.
func (v Value) AsList() []Value {
	if v.kind == KindList {
		return v.list
	}
	return []Value{v}
}

// AsMap returns the value's entries if it holds a map.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind == KindMap {
		return v.m, true
	}
	return nil, false
}

// Get looks up a key on a map value. The zero Value and false are returned
// for non-maps and missing keys alike.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Keys returns a map value's keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders the value for debugging and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.s)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.r, 'g', -1, 64)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, len(v.m))
		for _, k := range v.Keys() {
			parts = append(parts, k+": "+v.m[k].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}
