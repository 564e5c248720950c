package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/pkg/har"
	"github.com/usestring/harkit/pkg/jsonvalue"
	"github.com/usestring/harkit/pkg/wire"
)

// AddTool registers a tool after checking its output type with
// CheckOutputSchema. It panics on a failed check, so a broken output type
// stops the server at startup instead of failing a call later.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	if err := CheckOutputSchema[Out](t.Name); err != nil {
		panic(err.Error())
	}
	sdkmcp.AddTool(srv, t, h)
}

// OutputSchemaError describes an output type whose JSON would not match the
// schema the SDK infers from it.
type OutputSchemaError struct {
	Tool string
	Type reflect.Type
	// Opaque lists field paths holding values that marshal differently from
	// their inferred schema, each with the fix.
	Opaque []string
	// ZeroErr is set when the zero value itself fails validation.
	ZeroErr  error
	ZeroJSON []byte
}

func (e *OutputSchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tool %q: output type %s", e.Tool, e.Type)
	if len(e.Opaque) > 0 {
		b.WriteString(" has fields whose JSON differs from their inferred schema:")
		for _, p := range e.Opaque {
			b.WriteString("\n  ")
			b.WriteString(p)
		}
		return b.String()
	}
	fmt.Fprintf(&b, " zero value fails schema validation: %v\n  JSON: %s\n"+
		"  fix: add omitzero to slice fields or initialize them", e.ZeroErr, e.ZeroJSON)
	return b.String()
}

// CheckOutputSchema reports whether the tool output type T serializes the way
// the SDK's inferred schema expects.
//
// Two mistakes are caught. HAR entities, extension values and raw JSON are
// marshalled by custom or field-name rules the schema generator cannot see, so
// outputs must carry their wire form (entity.Dump(), Value.ToAny()) as
// map[string]any or any. And nil slices marshal as null while the schema says
// array, so slice fields need omitzero.
func CheckOutputSchema[T any](toolName string) error {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if opaque := opaqueFields(elem, nil, make(map[reflect.Type]bool)); len(opaque) > 0 {
		return &OutputSchemaError{Tool: toolName, Type: elem, Opaque: opaque}
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return nil // the SDK reports inference failures itself
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(elem).Interface())
	if err != nil {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	if err := resolved.Validate(&v); err != nil {
		return &OutputSchemaError{Tool: toolName, Type: elem, ZeroErr: err, ZeroJSON: data}
	}
	return nil
}

var (
	rawMessageType = reflect.TypeFor[json.RawMessage]()
	jsonValueType  = reflect.TypeFor[jsonvalue.Value]()
	harPkgPath     = reflect.TypeFor[har.HAR]().PkgPath()
	wirePkgPath    = reflect.TypeFor[wire.FieldError]().PkgPath()
)

// opaqueAdvice returns the fix for a type that must not appear in an output,
// or "" when t is fine.
func opaqueAdvice(t reflect.Type) string {
	switch {
	case t == rawMessageType:
		return "json.RawMessage is inferred as an array of integers; decode it into any"
	case t == jsonValueType:
		return "jsonvalue.Value marshals as plain JSON; store v.ToAny() in an any field"
	case t.PkgPath() == harPkgPath || t.PkgPath() == wirePkgPath:
		return fmt.Sprintf("%s marshals with Go field names; store its Dump() as map[string]any", t)
	}
	return ""
}

// opaqueFields walks t and returns "path: advice" for every field that
// opaqueAdvice rejects.
func opaqueFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if advice := opaqueAdvice(t); advice != "" {
		return []string{strings.Join(path, ".") + ": " + advice}
	}
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			found = append(found, opaqueFields(f.Type, append(path, f.Name), visited)...)
		}
	case reflect.Slice, reflect.Array:
		found = append(found, opaqueFields(t.Elem(), append(path, "[]"), visited)...)
	case reflect.Map:
		found = append(found, opaqueFields(t.Elem(), append(path, "[value]"), visited)...)
	}
	return found
}
