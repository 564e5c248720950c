// Package jsonvalue provides a closed variant type for JSON-shaped values.
//
// A Value is exactly one of null, boolean, number, string, array of Value, or
// object mapping string to Value. It is used to hold data whose structure is
// not known ahead of time (for example vendor extension fields in a HAR
// document) without falling back to an untyped interface.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: Number, n: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: String, s: s} }

// ArrayValue builds an array. The items are copied.
func ArrayValue(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: Array, arr: arr}
}

// ObjectValue builds an object. The members are copied.
func ObjectValue(members map[string]Value) Value {
	obj := make(map[string]Value, len(members))
	for k, v := range members {
		obj[k] = v
	}
	return Value{kind: Object, obj: obj}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == Null }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == Bool }

// Number returns the number held by v.
func (v Value) Number() (float64, bool) { return v.n, v.kind == Number }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.s, v.kind == String }

// Array returns a copy of the items held by v.
func (v Value) Array() ([]Value, bool) {
	if v.kind != Array {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// Object returns a copy of the members held by v.
func (v Value) Object() (map[string]Value, bool) {
	if v.kind != Object {
		return nil, false
	}
	out := make(map[string]Value, len(v.obj))
	for k, m := range v.obj {
		out[k] = m
	}
	return out, true
}

// Len returns the number of items or members for arrays and objects, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.arr)
	case Object:
		return len(v.obj)
	default:
		return 0
	}
}

// FromAny converts a decoded JSON value into a Value.
//
// Accepted inputs are nil, bool, string, every Go integer and float type,
// json.Number, []any, map[string]any and Value itself. Anything else, as well
// as NaN and infinite numbers, is rejected.
func FromAny(x any) (Value, error) {
	switch val := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return val, nil
	case bool:
		return BoolValue(val), nil
	case string:
		return StringValue(val), nil
	case float64:
		return number(val)
	case float32:
		return number(float64(val))
	case int:
		return NumberValue(float64(val)), nil
	case int8:
		return NumberValue(float64(val)), nil
	case int16:
		return NumberValue(float64(val)), nil
	case int32:
		return NumberValue(float64(val)), nil
	case int64:
		return NumberValue(float64(val)), nil
	case uint:
		return NumberValue(float64(val)), nil
	case uint8:
		return NumberValue(float64(val)), nil
	case uint16:
		return NumberValue(float64(val)), nil
	case uint32:
		return NumberValue(float64(val)), nil
	case uint64:
		return NumberValue(float64(val)), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return number(f)
	case []any:
		arr := make([]Value, len(val))
		for i, item := range val {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = iv
		}
		return Value{kind: Array, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(val))
		for k, item := range val {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			obj[k] = iv
		}
		return Value{kind: Object, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value of type %s", reflect.TypeOf(x))
	}
}

func number(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("number %v is not representable in JSON", f)
	}
	return NumberValue(f), nil
}

// ToAny converts v into the representation produced by encoding/json when
// decoding into an interface: nil, bool, float64, string, []any and
// map[string]any. Every call returns freshly allocated containers.
func (v Value) ToAny() any {
	switch v.kind {
	case Bool:
		return v.b
	case Number:
		return v.n
	case String:
		return v.s
	case Array:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.obj))
		for k, item := range v.obj {
			out[k] = item.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same variant with equal contents.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return v.n == other.n
	case String:
		return v.s == other.s
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, m := range v.obj {
			om, ok := other.obj[k]
			if !ok || !m.Equal(om) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes v. Object members are written in sorted key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Array:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Object:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			b, err := v.obj[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return json.Marshal(v.ToAny())
	}
}

// UnmarshalJSON decodes any JSON document into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	parsed, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
