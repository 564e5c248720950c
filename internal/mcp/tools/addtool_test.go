package tools

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harkit/pkg/har"
	"github.com/usestring/harkit/pkg/jsonvalue"
)

func TestCheckOutputSchema_ToolOutputs(t *testing.T) {
	assert.NoError(t, CheckOutputSchema[GetEntryOutput]("har_get_entry"))
	assert.NoError(t, CheckOutputSchema[*NormalizeOutput]("har_normalize"))
	assert.NoError(t, CheckOutputSchema[QueryBodyOutput]("har_query_body"))
	assert.NoError(t, CheckOutputSchema[any]("untyped"))
}

func TestCheckOutputSchema_NilSlice(t *testing.T) {
	type entriesOutput struct {
		Indexes []int `json:"indexes"`
	}
	err := CheckOutputSchema[entriesOutput]("entries")
	var schemaErr *OutputSchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "entries", schemaErr.Tool)
	assert.Empty(t, schemaErr.Opaque)
	assert.Error(t, schemaErr.ZeroErr)
	assert.Contains(t, err.Error(), "omitzero")
}

func TestCheckOutputSchema_OpaqueFields(t *testing.T) {
	type pageOutput struct {
		Page *har.Page `json:"page,omitempty"`
	}
	type entriesOutput struct {
		Entries []*har.Entry `json:"entries,omitzero"`
	}
	type extensionOutput struct {
		Extensions map[string]jsonvalue.Value `json:"extensions,omitempty"`
	}
	type rawOutput struct {
		Summary struct {
			Raw json.RawMessage `json:"raw,omitempty"`
		} `json:"summary"`
	}

	tests := []struct {
		name  string
		check func(string) error
		path  string
		fix   string
	}{
		{"entity", CheckOutputSchema[pageOutput], "Page", "Dump()"},
		{"entity slice", CheckOutputSchema[entriesOutput], "Entries.[]", "Dump()"},
		{"extension values", CheckOutputSchema[extensionOutput], "Extensions.[value]", "ToAny()"},
		{"raw json", CheckOutputSchema[rawOutput], "Summary.Raw", "decode it into any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check(tt.name)
			var schemaErr *OutputSchemaError
			require.ErrorAs(t, err, &schemaErr)
			require.Len(t, schemaErr.Opaque, 1)
			assert.Contains(t, schemaErr.Opaque[0], tt.path+": ")
			assert.Contains(t, schemaErr.Opaque[0], tt.fix)
		})
	}
}

func TestAddTool_PanicsOnBadOutput(t *testing.T) {
	type badOutput struct {
		Entry har.Entry `json:"entry"`
	}
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test"}, nil)
	handler := func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetEntryInput) (*sdkmcp.CallToolResult, badOutput, error) {
		return nil, badOutput{}, nil
	}
	assert.Panics(t, func() {
		AddTool(srv, &sdkmcp.Tool{Name: "bad_entry"}, handler)
	})
}
