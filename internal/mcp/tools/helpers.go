// Package tools contains MCP tool implementations for HAR archives.
package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/usestring/harkit/pkg/har"
	"github.com/usestring/harkit/pkg/wire"
)

// MimeJSON is the MIME type of JSON resource contents.
const MimeJSON = "application/json"

// entryAt returns entry i of h or a NOT_FOUND error.
func entryAt(h *har.HAR, i int) (*har.Entry, error) {
	entries := h.Entries()
	if i < 0 || i >= len(entries) || entries[i] == nil {
		return nil, ErrNotFound("entry", fmt.Sprintf("%d (archive has %d entries)", i, len(entries)))
	}
	return entries[i], nil
}

// extensionKeys returns the sorted extension keys of an entity.
func extensionKeys(m *har.Model) []string {
	keys := make([]string, 0, len(m.ExtendedArguments))
	for k := range m.ExtendedArguments {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// describeLoadError renders a FieldError for tool output.
func describeLoadError(err error) *LoadErrorInfo {
	if err == nil {
		return nil
	}
	info := &LoadErrorInfo{Message: err.Error()}
	var fe *wire.FieldError
	if errors.As(err, &fe) {
		info.Kind = fieldErrorKind(fe)
		info.Entity = fe.Entity
		info.Field = fe.Field
		info.Path = fe.Path
	}
	return info
}

func fieldErrorKind(fe *wire.FieldError) string {
	switch fe.Kind {
	case wire.ErrMissingRequiredField:
		return "missing_required_field"
	case wire.ErrTypeMismatch:
		return "type_mismatch"
	default:
		return strings.ReplaceAll(fe.Kind.Error(), " ", "_")
	}
}
