package wire

import (
	"github.com/invopop/jsonschema"
)

// Draft is the JSON Schema dialect produced by JSONSchema.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema describes the wire objects Load accepts: declared keys with their
// types, required keys, and null wherever Load falls back to a default.
// Undeclared keys are allowed, since Load tolerates them.
func (s *Schema[T]) JSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{
		Type:       "object",
		Title:      s.entity,
		Properties: jsonschema.NewProperties(),
	}
	for _, f := range s.fields {
		out.Properties.Set(f.key, f.describe())
		if f.required {
			out.Required = append(out.Required, f.key)
		}
	}
	return out
}

// RootJSONSchema is JSONSchema with the dialect declared, for use as a
// standalone document.
func (s *Schema[T]) RootJSONSchema() *jsonschema.Schema {
	out := s.JSONSchema()
	out.Version = Draft
	return out
}

func typeSchema(typ string) func() *jsonschema.Schema {
	return func() *jsonschema.Schema {
		return &jsonschema.Schema{Type: typ}
	}
}

func dateSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Format: "date-time"}
}

func orNull(s *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{s, {Type: "null"}},
	}
}
