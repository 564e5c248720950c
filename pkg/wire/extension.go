package wire

import (
	"strings"

	"github.com/usestring/harkit/pkg/jsonvalue"
)

// ExtensionPrefix marks wire keys that are preserved when not declared.
const ExtensionPrefix = "_"

// IsExtensionKey reports whether key participates in extension preservation.
func IsExtensionKey(key string) bool {
	return strings.HasPrefix(key, ExtensionPrefix)
}

// captureExtensions collects the undeclared, underscore-prefixed keys of one
// wire object. Other undeclared keys are dropped. The result is never nil.
func captureExtensions(entity, path string, raw map[string]any, naming *Naming) (map[string]jsonvalue.Value, error) {
	out := make(map[string]jsonvalue.Value)
	for k, v := range raw {
		if naming.Declared(k) || !IsExtensionKey(k) {
			continue
		}
		val, err := jsonvalue.FromAny(v)
		if err != nil {
			return nil, &FieldError{
				Kind:   ErrTypeMismatch,
				Entity: entity,
				Field:  k,
				Path:   joinPath(path, k),
				Detail: err.Error(),
			}
		}
		out[k] = val
	}
	return out, nil
}

// mergeExtensions writes preserved keys into a dumped wire object. Declared
// keys already present in out win, and keys without the extension prefix are
// skipped so the output never carries a key load would have dropped.
func mergeExtensions(out map[string]any, ext map[string]jsonvalue.Value, naming *Naming) {
	for k, v := range ext {
		if naming.Declared(k) || !IsExtensionKey(k) {
			continue
		}
		out[k] = v.ToAny()
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
