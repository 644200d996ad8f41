// Package expression implements the typed value sum type the policy engine
// compares dotted-path field resolutions against.
package expression

import (
	"fmt"
	"strings"
)

// Kind tags which variant of Value is populated.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindUnknown
)

// Value is a closed, tagged-variant value: exactly one field is meaningful,
// selected by Kind. It exists so the policy evaluator can compare a field
// resolved out of a CRM/CostResult against a Rule.Value without a type
// switch on interface{} at every comparison site.
type Value struct {
	kind    Kind
	boolV   bool
	numberV float64
	stringV string
	listV   []Value
	mapV    map[string]Value
}

func Null() Value                    { return Value{kind: KindNull} }
func Bool(v bool) Value              { return Value{kind: KindBool, boolV: v} }
func Number(v float64) Value         { return Value{kind: KindNumber, numberV: v} }
func String(v string) Value          { return Value{kind: KindString, stringV: v} }
func List(vs ...Value) Value         { return Value{kind: KindList, listV: vs} }
func Map(vs map[string]Value) Value  { return Value{kind: KindMap, mapV: vs} }
func Unknown() Value                 { return Value{kind: KindUnknown} }

// Kind reports which variant is populated.
func (v Value) Kind() Kind { return v.kind }

// FromGo converts a plain Go value (as found in CanonicalResource.Metadata,
// Tags, or a JSON-decoded Rule.Value) into a Value.
func FromGo(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(val)
	case int:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case float64:
		return Number(val)
	case string:
		return String(val)
	case []any:
		elems := make([]Value, len(val))
		for i, e := range val {
			elems[i] = FromGo(e)
		}
		return List(elems...)
	case []string:
		elems := make([]Value, len(val))
		for i, e := range val {
			elems[i] = String(e)
		}
		return List(elems...)
	case map[string]any:
		elems := make(map[string]Value, len(val))
		for k, e := range val {
			elems[k] = FromGo(e)
		}
		return Map(elems)
	case map[string]string:
		elems := make(map[string]Value, len(val))
		for k, e := range val {
			elems[k] = String(e)
		}
		return Map(elems)
	default:
		return Unknown()
	}
}

func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.numberV, true
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.stringV, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolV, true
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.listV, true
}

func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.mapV, true
}

// GetAttr resolves one dotted-path segment against a map value. A missing
// key, or a receiver that isn't a map, resolves to Null rather than an
// error: the policy engine treats a missing path as a type mismatch, which
// always compares false, never panics or errors.
func (v Value) GetAttr(name string) Value {
	if v.kind != KindMap {
		return Null()
	}
	val, ok := v.mapV[name]
	if !ok {
		return Null()
	}
	return val
}

// Index resolves a list element by position, or Null when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindList || i < 0 || i >= len(v.listV) {
		return Null()
	}
	return v.listV[i]
}

// Equals reports scalar/list/map structural equality. Type mismatches
// (including comparisons involving Unknown) are never equal.
func (v Value) Equals(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolV == other.boolV
	case KindNumber:
		return v.numberV == other.numberV
	case KindString:
		return v.stringV == other.stringV
	case KindList:
		if len(v.listV) != len(other.listV) {
			return false
		}
		for i := range v.listV {
			if !v.listV[i].Equals(other.listV[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.mapV) != len(other.mapV) {
			return false
		}
		for k, e := range v.mapV {
			o, ok := other.mapV[k]
			if !ok || !e.Equals(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare returns -1/0/1 for ordered scalar types (number, string). ok is
// false for any other kind or a kind mismatch, since those are never
// orderable; the caller treats that as a false comparison.
func (v Value) Compare(other Value) (result int, ok bool) {
	if v.kind != other.kind {
		return 0, false
	}
	switch v.kind {
	case KindNumber:
		switch {
		case v.numberV < other.numberV:
			return -1, true
		case v.numberV > other.numberV:
			return 1, true
		default:
			return 0, true
		}
	case KindString:
		return strings.Compare(v.stringV, other.stringV), true
	default:
		return 0, false
	}
}

// Contains implements the `contains` operator: substring for strings,
// element-containment for lists.
func (v Value) Contains(needle Value) bool {
	switch v.kind {
	case KindString:
		s, ok := needle.AsString()
		if !ok {
			return false
		}
		return strings.Contains(v.stringV, s)
	case KindList:
		for _, e := range v.listV {
			if e.Equals(needle) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.boolV)
	case KindNumber:
		return fmt.Sprintf("%v", v.numberV)
	case KindString:
		return v.stringV
	case KindList:
		parts := make([]string, len(v.listV))
		for i, e := range v.listV {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		parts := make([]string, 0, len(v.mapV))
		for k, e := range v.mapV {
			parts = append(parts, k+"="+e.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "(unknown)"
	}
}
