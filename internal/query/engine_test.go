package query

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harkit/pkg/har"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestEngine_Query_Simple(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query(decode(t, `{"name": "John", "age": 30}`), ".name", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"John"}, result.Values)
	assert.Equal(t, 1, result.RawCount)
	assert.Equal(t, []string{"document"}, result.MatchedLabels)
}

func TestEngine_Query_DumpedArchive(t *testing.T) {
	engine := NewEngine()

	log := har.NewLog()
	for _, u := range []string{"https://a.com/1", "https://b.com/2"} {
		e := har.NewEntry()
		e.Request = har.NewRequest("GET", u)
		e.Response = har.NewResponse(200, "OK")
		log.Entries = append(log.Entries, e)
	}

	result, err := engine.Query(har.NewHAR(log).Dump(), ".log.entries[] | .request.url", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"https://a.com/1", "https://b.com/2"}, result.Values)

	result, err = engine.Query(har.NewHAR(log).Dump(), "[.log.entries[].response.status] | add", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(400)}, result.Values)
}

func TestEngine_Query_Deduplicate(t *testing.T) {
	engine := NewEngine()

	data := decode(t, `{"items": [{"name": "a"}, {"name": "a"}, {"name": "b"}]}`)

	result, err := engine.Query(data, ".items[].name", Options{Deduplicate: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, result.Values)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_MaxResults(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query(decode(t, `{"items": [1, 2, 3, 4, 5]}`), ".items[]", Options{MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, result.Values)
	assert.True(t, result.Truncated)
}

func TestEngine_Query_Select(t *testing.T) {
	engine := NewEngine()

	data := decode(t, `{"items": [{"status": "active", "name": "a"}, {"status": "inactive", "name": "b"}, {"status": "active", "name": "c"}]}`)

	result, err := engine.Query(data, `.items[] | select(.status == "active") | .name`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
}

func TestEngine_Query_InvalidExpression(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Query(decode(t, `{"name": "John"}`), ".name[", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_Query_NilValuesSkipped(t *testing.T) {
	engine := NewEngine()

	data := decode(t, `{"items": [{"name": "a"}, {"noname": "b"}, {"name": "c"}]}`)

	result, err := engine.Query(data, ".items[].name", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "c"}, result.Values)
	assert.Equal(t, 2, result.RawCount)
}

func TestEngine_Run_LabelsAndVariable(t *testing.T) {
	engine := NewEngine()

	inputs := []Input{
		{Label: "entries[0]", Value: decode(t, `{"request": {"method": "GET"}}`)},
		{Label: "entries[1]", Value: decode(t, `{"request": {"method": "POST"}}`)},
	}

	result, err := engine.Run(inputs, `select(.request.method == "POST") | $label`, Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"entries[1]"}, result.Values)
	assert.Equal(t, []string{"entries[1]"}, result.MatchedLabels)
	assert.Equal(t, map[string]int{"entries[1]": 1}, result.LabelCounts)
}

func TestEngine_Run_DeduplicateAcrossInputs(t *testing.T) {
	engine := NewEngine()

	inputs := []Input{
		{Value: decode(t, `{"items": [{"name": "a"}, {"name": "b"}]}`)},
		{Value: decode(t, `{"items": [{"name": "b"}, {"name": "c"}]}`)},
	}

	result, err := engine.Run(inputs, ".items[].name", Options{Deduplicate: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "c"}, result.Values)
	assert.Equal(t, 4, result.RawCount)
	assert.Equal(t, []string{"input[0]", "input[1]"}, result.MatchedLabels)
}

func TestEngine_Run_ErrorContext(t *testing.T) {
	engine := NewEngine()

	inputs := []Input{
		{Label: "entries[0]", Value: decode(t, `{"items": [{"name": "a"}]}`)},
		{Label: "entries[1]", Value: decode(t, `{"other": "structure"}`)},
		{Label: "entries[2]", Value: decode(t, `{"items": [{"name": "b"}]}`)},
	}

	result, err := engine.Run(inputs, ".items[].name", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, result.Values)
	require.Len(t, result.Errors, 1)
	assert.True(t, strings.HasPrefix(result.Errors[0], "entries[1]: "))
	assert.Contains(t, result.Errors[0], "may not exist")
}

func TestEngine_Query_DeduplicateComplexObjects(t *testing.T) {
	engine := NewEngine()

	data := decode(t, `{"items": [{"id": 1, "name": "a"}, {"name": "a", "id": 1}, {"id": 2, "name": "b"}]}`)

	result, err := engine.Query(data, ".items[]", Options{Deduplicate: true})
	require.NoError(t, err)
	assert.Len(t, result.Values, 2)
	assert.Equal(t, 3, result.RawCount)
}

func TestEngine_Query_Halt(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Query(decode(t, `{}`), `"stop" | halt_error`, Options{})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "query halted")
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine()

	assert.NoError(t, engine.ValidateExpression(".log.entries[].request.url"))
	assert.NoError(t, engine.ValidateExpression(`.[] | select(.x == $label)`))

	assert.Error(t, engine.ValidateExpression(".name["))
	assert.Error(t, engine.ValidateExpression("$undefined"))
}
