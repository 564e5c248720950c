package wire

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CamelCase applies the default naming rule: the snake_case name is split on
// "_", the first segment is lowercased and every following segment is
// title-cased. "started_date_time" becomes "startedDateTime".
func CamelCase(name string) string {
	// Casers keep internal state and must not be shared between goroutines.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	parts := strings.Split(name, "_")
	var b strings.Builder
	b.WriteString(lower.String(parts[0]))
	for _, p := range parts[1:] {
		b.WriteString(title.String(p))
	}
	return b.String()
}

// SnakeCase is the inverse of CamelCase for keys produced by the default rule.
// Every upper-case rune starts a new segment, so acronym keys such as
// "redirectURL" do not invert cleanly and need an explicit override.
func SnakeCase(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Naming maps the declared fields of one entity to wire keys and back.
// It is a bijection: NewNaming rejects tables where two fields share a key.
type Naming struct {
	entity string
	fields []string
	toWire map[string]string
	toName map[string]string
}

// NewNaming builds the naming table for entity. Fields use CamelCase unless
// overrides names an explicit wire key for them.
func NewNaming(entity string, fields []string, overrides map[string]string) (*Naming, error) {
	n := &Naming{
		entity: entity,
		fields: make([]string, 0, len(fields)),
		toWire: make(map[string]string, len(fields)),
		toName: make(map[string]string, len(fields)),
	}

	for _, f := range fields {
		if f == "" {
			return nil, &SchemaError{Entity: entity, Detail: "empty field name"}
		}
		if _, dup := n.toWire[f]; dup {
			return nil, &SchemaError{Entity: entity, Detail: fmt.Sprintf("field %q declared twice", f)}
		}

		key, ok := overrides[f]
		if !ok {
			key = CamelCase(f)
		}
		if key == "" {
			return nil, &SchemaError{Entity: entity, Detail: fmt.Sprintf("field %q maps to an empty wire key", f)}
		}
		if other, taken := n.toName[key]; taken {
			return nil, &SchemaError{
				Entity: entity,
				Detail: fmt.Sprintf("fields %q and %q both map to wire key %q", other, f, key),
			}
		}

		n.fields = append(n.fields, f)
		n.toWire[f] = key
		n.toName[key] = f
	}

	for f := range overrides {
		if _, ok := n.toWire[f]; !ok {
			return nil, &SchemaError{Entity: entity, Detail: fmt.Sprintf("override for undeclared field %q", f)}
		}
	}

	return n, nil
}

// Entity returns the entity name the table was built for.
func (n *Naming) Entity() string { return n.entity }

// Fields returns the declared internal field names in declaration order.
func (n *Naming) Fields() []string {
	out := make([]string, len(n.fields))
	copy(out, n.fields)
	return out
}

// WireKey returns the wire key for a declared field.
func (n *Naming) WireKey(field string) (string, bool) {
	key, ok := n.toWire[field]
	return key, ok
}

// FieldName returns the declared field a wire key maps to.
func (n *Naming) FieldName(key string) (string, bool) {
	f, ok := n.toName[key]
	return f, ok
}

// Declared reports whether key is the wire key of a declared field.
func (n *Naming) Declared(key string) bool {
	_, ok := n.toName[key]
	return ok
}
