package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NormalizeInput is the input for har_normalize.
type NormalizeInput struct {
	Path       string `json:"path" jsonschema:"HAR file path, relative to the archive root"`
	OutputPath string `json:"output_path,omitempty" jsonschema:"Write the normalized archive here instead of returning it. May equal path."`
}

// NormalizeOutput is the output for har_normalize.
type NormalizeOutput struct {
	Path       string         `json:"path"`
	OutputPath string         `json:"output_path,omitempty"`
	Bytes      int            `json:"bytes,omitempty"`
	EntryCount int            `json:"entry_count"`
	Document   map[string]any `json:"document,omitempty"`
	Hint       string         `json:"hint,omitempty"`
}

// ToolNormalize loads an archive and dumps it back, filling defaults and
// dropping undeclared keys that are not extensions.
func ToolNormalize(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input NormalizeInput) (*sdkmcp.CallToolResult, NormalizeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input NormalizeInput) (*sdkmcp.CallToolResult, NormalizeOutput, error) {
		a, err := d.LoadArchive(ctx, input.Path)
		if err != nil {
			return nil, NormalizeOutput{}, err
		}

		out := NormalizeOutput{Path: a.Path, EntryCount: len(a.HAR.Entries())}

		if input.OutputPath == "" {
			out.Document = a.HAR.Dump()
			out.Hint = "Set output_path to write the normalized archive to disk."
			return nil, out, nil
		}

		written, n, err := d.Store.Write(input.OutputPath, a.HAR)
		if err != nil {
			return nil, NormalizeOutput{}, WrapArchiveError(input.OutputPath, err)
		}
		out.OutputPath = written
		out.Bytes = n
		out.Hint = fmt.Sprintf("Wrote %d bytes.", n)
		return nil, out, nil
	}
}
