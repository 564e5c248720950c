package wire

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrSchemaConfiguration  = errors.New("schema configuration error")
)

// FieldError reports a per-document load failure on a single field.
type FieldError struct {
	Kind   error  // ErrMissingRequiredField or ErrTypeMismatch
	Entity string // entity that declares the field, e.g. "Cookie"
	Field  string // internal field name, e.g. "http_only"
	Path   string // wire path from the document being loaded, e.g. "cookies[1].httpOnly"
	Detail string
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Path)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// SchemaError reports an inconsistent entity table. It is raised when a schema
// is built, never while loading or dumping a document.
type SchemaError struct {
	Entity string
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrSchemaConfiguration, e.Entity, e.Detail)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaConfiguration
}

func missingField(entity, field, path string) error {
	return &FieldError{
		Kind:   ErrMissingRequiredField,
		Entity: entity,
		Field:  field,
		Path:   path,
	}
}

func typeMismatch(entity, field, path, want string, got any) error {
	return &FieldError{
		Kind:   ErrTypeMismatch,
		Entity: entity,
		Field:  field,
		Path:   path,
		Detail: fmt.Sprintf("want %s, got %s", want, describe(got)),
	}
}

func describe(x any) string {
	switch val := x.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return fmt.Sprintf("string %q", val)
	case float64, float32, int, int64, int32:
		return fmt.Sprintf("number %v", val)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", x)
	}
}
