package tools

import (
	"context"
	"encoding/json"
	"os"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/pkg/har"
)

// ValidateInput is the input for har_validate.
type ValidateInput struct {
	Path    string `json:"path,omitempty" jsonschema:"HAR file path, relative to the archive root"`
	Content string `json:"content,omitempty" jsonschema:"HAR document as JSON text. Use instead of path."`
}

// ValidateOutput is the output for har_validate.
type ValidateOutput struct {
	Valid        bool           `json:"valid"`
	SchemaErrors []string       `json:"schema_errors,omitzero"`
	LoadError    *LoadErrorInfo `json:"load_error,omitempty"`
	EntryCount   int            `json:"entry_count"`
	Hint         string         `json:"hint,omitempty"`
}

// LoadErrorInfo describes why a document failed to load.
type LoadErrorInfo struct {
	Kind    string `json:"kind,omitempty"`
	Entity  string `json:"entity,omitempty"`
	Field   string `json:"field,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// ToolValidate checks a document against the HAR schema and then loads it.
// Both checks run so callers see every schema problem alongside the first
// load failure.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		if (input.Path == "") == (input.Content == "") {
			return nil, ValidateOutput{}, ErrInvalidInput("exactly one of path or content is required")
		}

		data := []byte(input.Content)
		if input.Path != "" {
			resolved, err := d.Store.Resolve(input.Path)
			if err != nil {
				return nil, ValidateOutput{}, WrapArchiveError(input.Path, err)
			}
			data, err = os.ReadFile(resolved)
			if err != nil {
				return nil, ValidateOutput{}, WrapArchiveError(input.Path, err)
			}
		}

		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, ValidateOutput{
				Valid:     false,
				LoadError: &LoadErrorInfo{Kind: "invalid_json", Message: err.Error()},
				Hint:      "The document is not JSON.",
			}, nil
		}

		out := ValidateOutput{Valid: true}

		if result := d.Validator.ValidateValue(doc); !result.Valid {
			out.Valid = false
			out.SchemaErrors = result.Errors
		}

		h, err := har.LoadHARValue(doc)
		if err != nil {
			out.Valid = false
			out.LoadError = describeLoadError(err)
		} else {
			out.EntryCount = len(h.Entries())
		}

		switch {
		case out.Valid:
			out.Hint = "Document is a valid HAR archive."
		case out.LoadError != nil:
			out.Hint = "The document cannot be loaded. Fix load_error first; schema_errors lists every schema violation."
		default:
			out.Hint = "The document loads, but some values fall outside the HAR schema."
		}
		return nil, out, nil
	}
}

// SchemaInput is the input for har_schema.
type SchemaInput struct{}

// SchemaOutput is the output for har_schema.
type SchemaOutput struct {
	Schema map[string]any `json:"schema,omitempty"`
}

// ToolSchema returns the JSON Schema of a HAR document.
func ToolSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, SchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SchemaInput) (*sdkmcp.CallToolResult, SchemaOutput, error) {
		data, err := json.Marshal(har.JSONSchema())
		if err != nil {
			return nil, SchemaOutput{}, err
		}
		var schema map[string]any
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, SchemaOutput{}, err
		}
		return nil, SchemaOutput{Schema: schema}, nil
	}
}
