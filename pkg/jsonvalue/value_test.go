package jsonvalue

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_DecodedDocument(t *testing.T) {
	var doc any
	err := json.Unmarshal([]byte(`{"a": [1, "two", true, null], "b": {"c": 2.5}}`), &doc)
	require.NoError(t, err)

	v, err := FromAny(doc)
	require.NoError(t, err)
	assert.Equal(t, Object, v.Kind())
	assert.Equal(t, 2, v.Len())

	obj, ok := v.Object()
	require.True(t, ok)
	arr, ok := obj["a"].Array()
	require.True(t, ok)
	require.Len(t, arr, 4)

	n, ok := arr[0].Number()
	assert.True(t, ok)
	assert.Equal(t, float64(1), n)
	s, ok := arr[1].Str()
	assert.True(t, ok)
	assert.Equal(t, "two", s)
	b, ok := arr[2].Bool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.True(t, arr[3].IsNull())

	// Round trip back to the encoding/json representation.
	assert.Equal(t, doc, v.ToAny())
}

func TestFromAny_IntegerKinds(t *testing.T) {
	testCases := []struct {
		name  string
		input any
	}{
		{"int", 7},
		{"int64", int64(7)},
		{"uint8", uint8(7)},
		{"float32", float32(7)},
		{"json.Number", json.Number("7")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := FromAny(tc.input)
			require.NoError(t, err)
			assert.Equal(t, float64(7), v.ToAny())
		})
	}
}

func TestFromAny_Rejects(t *testing.T) {
	testCases := []struct {
		name  string
		input any
	}{
		{"channel", make(chan int)},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"nested struct", map[string]any{"x": struct{}{}}},
		{"bad number", json.Number("abc")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromAny(tc.input)
			assert.Error(t, err)
		})
	}
}

func TestValue_ToAnyReturnsFreshContainers(t *testing.T) {
	v, err := FromAny(map[string]any{"list": []any{"x"}})
	require.NoError(t, err)

	first := v.ToAny().(map[string]any)
	first["list"].([]any)[0] = "mutated"
	first["extra"] = true

	second := v.ToAny().(map[string]any)
	assert.Equal(t, map[string]any{"list": []any{"x"}}, second)
}

func TestValue_ConstructorsCopyInput(t *testing.T) {
	items := []Value{StringValue("a")}
	arr := ArrayValue(items...)
	items[0] = StringValue("b")

	got, _ := arr.Array()
	s, _ := got[0].Str()
	assert.Equal(t, "a", s)

	members := map[string]Value{"k": NumberValue(1)}
	obj := ObjectValue(members)
	members["k"] = NumberValue(2)

	m, _ := obj.Object()
	n, _ := m["k"].Number()
	assert.Equal(t, float64(1), n)
}

func TestValue_Equal(t *testing.T) {
	a, _ := FromAny(map[string]any{"x": []any{1.0, "y"}})
	b, _ := FromAny(map[string]any{"x": []any{1.0, "y"}})
	c, _ := FromAny(map[string]any{"x": []any{1.0, "z"}})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, NullValue().Equal(BoolValue(false)))
	assert.True(t, NullValue().Equal(Value{}))
}

func TestValue_JSON(t *testing.T) {
	var v Value
	err := json.Unmarshal([]byte(`{"b": [1, {"z": null}], "a": "s"}`), &v)
	require.NoError(t, err)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"s","b":[1,{"z":null}]}`, string(out))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "object", Object.String())
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
