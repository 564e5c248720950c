package wire

import (
	"fmt"
	"time"

	"github.com/invopop/jsonschema"
)

// Field describes one declared field of an entity T: its internal name,
// whether the wire key must be present, the default applied when it is not,
// and how its value moves between T and the wire. Fields are built with the
// constructors in this file and handed to NewSchema; the wire key is assigned
// there from the entity's naming table.
type Field[T any] struct {
	name     string
	key      string
	required bool
	nullable bool

	apply    func(t *T)
	load     func(t *T, raw any, at site) error
	dump     func(t *T) any
	describe func() *jsonschema.Schema
}

// Name returns the internal field name.
func (f Field[T]) Name() string { return f.name }

// Key returns the wire key. It is empty until the field is part of a schema.
func (f Field[T]) Key() string { return f.key }

// Required reports whether absence of the wire key fails a load.
func (f Field[T]) Required() bool { return f.required }

// FieldOption adjusts a field definition.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	required bool
}

// Required marks the field as mandatory on load.
func Required() FieldOption {
	return func(o *fieldOptions) {
		o.required = true
	}
}

func collect(opts []FieldOption) fieldOptions {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// site locates a value being loaded, for error reporting.
type site struct {
	entity string
	field  string
	path   string
}

func (s site) mismatch(want string, got any) error {
	return typeMismatch(s.entity, s.field, s.path, want, got)
}

func (s site) index(i int) site {
	s.path = fmt.Sprintf("%s[%d]", s.path, i)
	return s
}

func scalar[T, V any](name, want string, ptr func(*T) *V, def V, conv func(any) (V, bool), out func(V) any, typ func() *jsonschema.Schema, opts []FieldOption) Field[T] {
	o := collect(opts)
	return Field[T]{
		name:     name,
		required: o.required,
		apply: func(t *T) {
			*ptr(t) = def
		},
		load: func(t *T, raw any, at site) error {
			v, ok := conv(raw)
			if !ok {
				return at.mismatch(want, raw)
			}
			*ptr(t) = v
			return nil
		},
		dump: func(t *T) any {
			return out(*ptr(t))
		},
		describe: func() *jsonschema.Schema {
			if o.required {
				return typ()
			}
			return orNull(typ())
		},
	}
}

func nullable[T, V any](name, want string, ptr func(*T) **V, conv func(any) (V, bool), out func(V) any, typ func() *jsonschema.Schema, opts []FieldOption) Field[T] {
	o := collect(opts)
	return Field[T]{
		name:     name,
		required: o.required,
		nullable: true,
		apply: func(t *T) {
			*ptr(t) = nil
		},
		load: func(t *T, raw any, at site) error {
			if raw == nil {
				*ptr(t) = nil
				return nil
			}
			v, ok := conv(raw)
			if !ok {
				return at.mismatch(want, raw)
			}
			*ptr(t) = &v
			return nil
		},
		dump: func(t *T) any {
			p := *ptr(t)
			if p == nil {
				return nil
			}
			return out(*p)
		},
		describe: func() *jsonschema.Schema {
			return orNull(typ())
		},
	}
}

// String declares a string field with a default.
func String[T any](name string, ptr func(*T) *string, def string, opts ...FieldOption) Field[T] {
	return scalar(name, "string", ptr, def, asString, identity[string], typeSchema("string"), opts)
}

// OptionalString declares a string field that may be null. It defaults to null.
func OptionalString[T any](name string, ptr func(*T) **string, opts ...FieldOption) Field[T] {
	return nullable(name, "string or null", ptr, asString, identity[string], typeSchema("string"), opts)
}

// Int declares an integer field. Numbers with a fractional part are rejected.
// Dumped values are float64, as encoding/json decodes every number.
func Int[T any](name string, ptr func(*T) *int64, def int64, opts ...FieldOption) Field[T] {
	return scalar(name, "integer", ptr, def, asInt, func(v int64) any { return float64(v) }, typeSchema("integer"), opts)
}

// Float declares a numeric field.
func Float[T any](name string, ptr func(*T) *float64, def float64, opts ...FieldOption) Field[T] {
	return scalar(name, "number", ptr, def, asFloat, identity[float64], typeSchema("number"), opts)
}

// Bool declares a boolean field.
func Bool[T any](name string, ptr func(*T) *bool, def bool, opts ...FieldOption) Field[T] {
	return scalar(name, "boolean", ptr, def, asBool, identity[bool], typeSchema("boolean"), opts)
}

// Date declares an ISO 8601 date-time field that may be null. It defaults to null.
func Date[T any](name string, ptr func(*T) **time.Time, opts ...FieldOption) Field[T] {
	return nullable(name, "ISO 8601 date-time string", ptr, asDate, func(v time.Time) any { return FormatDate(v) }, dateSchema, opts)
}

// One declares a single nested entity. An absent or null wire value loads as
// nil and a nil field dumps as null.
func One[T, U any](name string, ptr func(*T) **U, sub *Schema[U], opts ...FieldOption) Field[T] {
	return one(name, ptr, sub, nil, opts)
}

// OneDefault declares a single nested entity that is never absent: when the
// wire value is missing or null, newDefault synthesizes one, and a nil field
// dumps as the synthesized value.
func OneDefault[T, U any](name string, ptr func(*T) **U, sub *Schema[U], newDefault func() *U, opts ...FieldOption) Field[T] {
	return one(name, ptr, sub, newDefault, opts)
}

func one[T, U any](name string, ptr func(*T) **U, sub *Schema[U], newDefault func() *U, opts []FieldOption) Field[T] {
	o := collect(opts)
	fallback := func() *U {
		if newDefault == nil {
			return nil
		}
		return newDefault()
	}
	return Field[T]{
		name:     name,
		required: o.required,
		nullable: true,
		apply: func(t *T) {
			*ptr(t) = fallback()
		},
		load: func(t *T, raw any, at site) error {
			if raw == nil {
				*ptr(t) = fallback()
				return nil
			}
			m, ok := asObject(raw)
			if !ok {
				return at.mismatch(sub.entity+" object", raw)
			}
			v, err := sub.load(m, at.path)
			if err != nil {
				return err
			}
			*ptr(t) = v
			return nil
		},
		dump: func(t *T) any {
			v := *ptr(t)
			if v == nil {
				v = fallback()
			}
			if v == nil {
				return nil
			}
			return sub.Dump(v)
		},
		describe: func() *jsonschema.Schema {
			return orNull(sub.JSONSchema())
		},
	}
}

// Many declares an ordered list of nested entities. It defaults to an empty
// list and is never null on dump.
func Many[T, U any](name string, ptr func(*T) *[]*U, sub *Schema[U], opts ...FieldOption) Field[T] {
	o := collect(opts)
	return Field[T]{
		name:     name,
		required: o.required,
		apply: func(t *T) {
			*ptr(t) = []*U{}
		},
		load: func(t *T, raw any, at site) error {
			list, ok := asList(raw)
			if !ok {
				return at.mismatch("array of "+sub.entity, raw)
			}
			items := make([]*U, 0, len(list))
			for i, elem := range list {
				elemAt := at.index(i)
				m, ok := asObject(elem)
				if !ok {
					return elemAt.mismatch(sub.entity+" object", elem)
				}
				v, err := sub.load(m, elemAt.path)
				if err != nil {
					return err
				}
				items = append(items, v)
			}
			*ptr(t) = items
			return nil
		},
		dump: func(t *T) any {
			items := *ptr(t)
			out := make([]any, 0, len(items))
			for _, v := range items {
				if v == nil {
					out = append(out, nil)
					continue
				}
				out = append(out, sub.Dump(v))
			}
			return out
		},
		describe: func() *jsonschema.Schema {
			arr := &jsonschema.Schema{Type: "array", Items: sub.JSONSchema()}
			if o.required {
				return arr
			}
			return orNull(arr)
		},
	}
}

func identity[V any](v V) any { return v }
