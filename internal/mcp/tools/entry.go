package tools

import (
	"context"
	"fmt"
	"unicode/utf8"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/indexer"
	"github.com/usestring/harkit/internal/search"
)

// GetEntryInput is the input for har_get_entry.
type GetEntryInput struct {
	Path           string `json:"path" jsonschema:"HAR file path, relative to the archive root"`
	Index          int    `json:"index" jsonschema:"Entry index in log.entries (from har_search_entries)"`
	IncludeContent bool   `json:"include_content,omitempty" jsonschema:"Include response content text (default: false)"`
	MaxBytes       int    `json:"max_bytes,omitempty" jsonschema:"Max content bytes when include_content is set (default: 65536)"`
}

// GetEntryOutput is the output for har_get_entry.
type GetEntryOutput struct {
	Summary          *indexer.EntrySummary `json:"summary"`
	Entry            map[string]any        `json:"entry,omitempty"`
	ContentBytes     int                   `json:"content_bytes,omitempty"`
	ContentTruncated bool                  `json:"content_truncated,omitempty"`
	Hint             string                `json:"hint,omitempty"`
}

const defaultContentBytes = 65536

// ToolGetEntry returns one entry in its wire form.
func ToolGetEntry(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetEntryInput) (*sdkmcp.CallToolResult, GetEntryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetEntryInput) (*sdkmcp.CallToolResult, GetEntryOutput, error) {
		a, err := d.LoadArchive(ctx, input.Path)
		if err != nil {
			return nil, GetEntryOutput{}, err
		}
		entry, err := entryAt(a.HAR, input.Index)
		if err != nil {
			return nil, GetEntryOutput{}, err
		}

		out := GetEntryOutput{
			Summary: indexer.FromEntry(uint32(input.Index), entry).ToSummary(),
			Entry:   entry.Dump(),
		}

		var text string
		if entry.Response != nil && entry.Response.Content != nil {
			text = search.ContentText(entry.Response.Content)
		}
		out.ContentBytes = len(text)

		content := dumpedContent(out.Entry)
		switch {
		case content == nil:
		case !input.IncludeContent:
			if text != "" {
				content["text"] = ""
				out.Hint = fmt.Sprintf("Content text (%d bytes) omitted. Set include_content=true to see it.", len(text))
			}
		default:
			limit := input.MaxBytes
			if limit <= 0 {
				limit = defaultContentBytes
			}
			if len(text) > limit {
				text = truncateUTF8(text, limit)
				out.ContentTruncated = true
			}
			// Decoded text replaces base64 content.
			content["text"] = text
			content["encoding"] = nil
		}

		return nil, out, nil
	}
}

func dumpedContent(entry map[string]any) map[string]any {
	resp, ok := entry["response"].(map[string]any)
	if !ok {
		return nil
	}
	content, _ := resp["content"].(map[string]any)
	return content
}

// truncateUTF8 cuts s to at most limit bytes without splitting a rune.
func truncateUTF8(s string, limit int) string {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
