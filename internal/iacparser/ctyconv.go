package iacparser

import "github.com/zclconf/go-cty/cty"

// hclValueToGo converts a literal cty.Value into a plain Go value. It is
// only ever called on values classifyExpression judged literal, so unknown
// values never reach here; null collapses to nil.
func hclValueToGo(val interface{}) interface{} {
	v, ok := val.(cty.Value)
	if !ok {
		return val
	}
	return ctyToGoValue(v)
}

func ctyToGoValue(val cty.Value) interface{} {
	if !val.IsKnown() || val.IsNull() {
		return nil
	}

	switch {
	case val.Type() == cty.String:
		return val.AsString()
	case val.Type() == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f
	case val.Type() == cty.Bool:
		return val.True()
	case val.Type().IsListType(), val.Type().IsSetType(), val.Type().IsTupleType():
		if !val.CanIterateElements() {
			return nil
		}
		out := make([]interface{}, 0, val.LengthInt())
		it := val.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			out = append(out, ctyToGoValue(elem))
		}
		return out
	case val.Type().IsMapType(), val.Type().IsObjectType():
		if !val.CanIterateElements() {
			return nil
		}
		out := make(map[string]interface{})
		it := val.ElementIterator()
		for it.Next() {
			k, elem := it.Element()
			out[k.AsString()] = ctyToGoValue(elem)
		}
		return out
	default:
		return nil
	}
}
