// Package wire is a small table-driven engine that moves typed entities to and
// from their wire form: JSON-shaped maps with camelCase keys.
//
// Each entity is described once by a Definition: an explicit list of fields
// (internal snake_case name, kind, default, required flag) plus optional wire
// key overrides for names the default camelCase rule gets wrong. NewSchema
// checks the table and returns a Schema whose Load and Dump combine
//
//   - naming: field name to wire key and back (Naming);
//   - defaults: the value used when a wire key is absent;
//   - composition: One and Many fields recurse into nested schemas;
//   - extensions: undeclared keys starting with "_" are kept per instance and
//     written back on dump; other undeclared keys are dropped.
//
// Schemas are immutable once built and safe for concurrent use.
package wire

import (
	"fmt"

	"github.com/usestring/harkit/pkg/jsonvalue"
)

// Definition is the declarative table for one entity type T.
type Definition[T any] struct {
	// Entity names the type in errors, e.g. "Request".
	Entity string
	// Extended returns the instance's extension bag.
	Extended func(*T) *map[string]jsonvalue.Value
	// Overrides maps internal field names to wire keys that differ from CamelCase.
	Overrides map[string]string
	Fields    []Field[T]
}

// Schema loads and dumps one entity type.
type Schema[T any] struct {
	entity   string
	extended func(*T) *map[string]jsonvalue.Value
	fields   []Field[T]
	naming   *Naming
}

// NewSchema validates def and builds its schema.
func NewSchema[T any](def Definition[T]) (*Schema[T], error) {
	if def.Entity == "" {
		return nil, &SchemaError{Entity: "?", Detail: "entity name is required"}
	}
	if def.Extended == nil {
		return nil, &SchemaError{Entity: def.Entity, Detail: "extension accessor is required"}
	}

	names := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		if f.load == nil || f.dump == nil || f.apply == nil {
			return nil, &SchemaError{Entity: def.Entity, Detail: fmt.Sprintf("field %d (%q) was not built with a field constructor", i, f.name)}
		}
		names[i] = f.name
	}

	naming, err := NewNaming(def.Entity, names, def.Overrides)
	if err != nil {
		return nil, err
	}

	fields := make([]Field[T], len(def.Fields))
	for i, f := range def.Fields {
		key, _ := naming.WireKey(f.name)
		if IsExtensionKey(key) {
			return nil, &SchemaError{Entity: def.Entity, Detail: fmt.Sprintf("wire key %q of field %q uses the extension prefix", key, f.name)}
		}
		f.key = key
		fields[i] = f
	}

	return &Schema[T]{
		entity:   def.Entity,
		extended: def.Extended,
		fields:   fields,
		naming:   naming,
	}, nil
}

// MustSchema is NewSchema for package-level tables; it panics on a bad table.
func MustSchema[T any](def Definition[T]) *Schema[T] {
	s, err := NewSchema(def)
	if err != nil {
		panic(err)
	}
	return s
}

// Entity returns the entity name.
func (s *Schema[T]) Entity() string { return s.entity }

// Naming returns the entity's naming table.
func (s *Schema[T]) Naming() *Naming { return s.naming }

// Fields returns the declared fields with their wire keys assigned.
func (s *Schema[T]) Fields() []Field[T] {
	out := make([]Field[T], len(s.fields))
	copy(out, s.fields)
	return out
}

// Defaults returns a new instance with every field at its default. Required
// fields are left at their zero value.
func (s *Schema[T]) Defaults() *T {
	t := new(T)
	for _, f := range s.fields {
		f.apply(t)
	}
	*s.extended(t) = map[string]jsonvalue.Value{}
	return t
}

// Load builds an instance from a wire object.
func (s *Schema[T]) Load(m map[string]any) (*T, error) {
	return s.load(m, "")
}

// LoadValue is Load for a value that must itself be a wire object.
func (s *Schema[T]) LoadValue(raw any) (*T, error) {
	m, ok := asObject(raw)
	if !ok {
		return nil, typeMismatch(s.entity, "", "", s.entity+" object", raw)
	}
	return s.load(m, "")
}

func (s *Schema[T]) load(m map[string]any, path string) (*T, error) {
	t := new(T)
	for _, f := range s.fields {
		at := site{entity: s.entity, field: f.name, path: joinPath(path, f.key)}

		raw, present := m[f.key]
		if !present {
			if f.required {
				return nil, missingField(s.entity, f.name, at.path)
			}
			f.apply(t)
			continue
		}

		if raw == nil && !f.nullable {
			if f.required {
				return nil, at.mismatch("non-null value", raw)
			}
			f.apply(t)
			continue
		}

		if err := f.load(t, raw, at); err != nil {
			return nil, err
		}
	}

	ext, err := captureExtensions(s.entity, path, m, s.naming)
	if err != nil {
		return nil, err
	}
	*s.extended(t) = ext

	return t, nil
}

// Dump renders t as a wire object. Every declared field is emitted, followed
// by the instance's extension keys. A nil t dumps as nil.
func (s *Schema[T]) Dump(t *T) map[string]any {
	if t == nil {
		return nil
	}
	ext := *s.extended(t)
	out := make(map[string]any, len(s.fields)+len(ext))
	for _, f := range s.fields {
		out[f.key] = f.dump(t)
	}
	mergeExtensions(out, ext, s.naming)
	return out
}
