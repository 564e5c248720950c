package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking that its output
// type serializes the way the SDK's inferred schema expects. Nil slices
// without omitzero, HAR entities, jsonvalue.Value and json.RawMessage fields
// all fail the check; carry entity.Dump() or Value.ToAny() instead.
//
// AddTool panics with the offending field paths when the check fails.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
