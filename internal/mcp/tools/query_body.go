package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/bodyquery"
)

// QueryBodyInput is the input for har_query_body.
type QueryBodyInput struct {
	Path       string `json:"path" jsonschema:"HAR file path, relative to the archive root"`
	Indexes    []int  `json:"indexes,omitempty" jsonschema:"Entry indexes to query (default: every entry with a body)"`
	Side       string `json:"side,omitempty" jsonschema:"response (default) or request"`
	Expression string `json:"expression" jsonschema:"Query in the selected mode. CSS selectors may end in @attr to extract an attribute."`
	Mode       string `json:"mode,omitempty" jsonschema:"css, xpath, regex, form or jq. Default: detected from each body's MIME type"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Max values per body (default: unlimited)"`
}

// QueryBodyOutput is the output for har_query_body.
type QueryBodyOutput struct {
	Results []*BodyQueryResult `json:"results,omitzero"`
	Skipped []string           `json:"skipped,omitzero"`
	Hint    string             `json:"hint,omitempty"`
}

// BodyQueryResult holds the values extracted from one entry's body.
type BodyQueryResult struct {
	Index    int      `json:"index"`
	MimeType string   `json:"mime_type,omitempty"`
	Mode     string   `json:"mode"`
	Values   []any    `json:"values"`
	Errors   []string `json:"errors,omitzero"`
}

// ToolQueryBody extracts values from entry bodies.
func ToolQueryBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
		engine := bodyquery.NewEngine(d.Query)
		if err := engine.ValidateExpression(input.Expression, input.Mode); err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		side := bodyquery.Side(input.Side)
		switch side {
		case "":
			side = bodyquery.SideResponse
		case bodyquery.SideResponse, bodyquery.SideRequest:
		default:
			return nil, QueryBodyOutput{}, ErrInvalidInput("side must be 'response' or 'request'")
		}

		a, err := d.LoadArchive(ctx, input.Path)
		if err != nil {
			return nil, QueryBodyOutput{}, err
		}

		explicit := len(input.Indexes) > 0
		indexes := input.Indexes
		if !explicit {
			indexes = make([]int, len(a.HAR.Entries()))
			for i := range indexes {
				indexes[i] = i
			}
		}

		var out QueryBodyOutput
		for _, i := range indexes {
			if err := ctx.Err(); err != nil {
				return nil, QueryBodyOutput{}, err
			}
			entry, err := entryAt(a.HAR, i)
			if err != nil {
				return nil, QueryBodyOutput{}, err
			}
			label := fmt.Sprintf("entries[%d]", i)

			body, ok := bodyquery.BodyOf(label, entry, side)
			if !ok {
				if explicit {
					out.Skipped = append(out.Skipped, label+": no "+string(side)+" body")
				}
				continue
			}
			if bodyquery.IsBinary(body.MimeType, body.Text) {
				if explicit {
					out.Skipped = append(out.Skipped, label+": binary body")
				}
				continue
			}
			// Bodies of unknown type are queried only when selected.
			if !explicit && input.Mode == "" && bodyquery.Classify(body.MimeType) == bodyquery.Binary {
				continue
			}

			res, err := engine.Query(body, input.Expression, input.Mode, input.MaxResults)
			if err != nil {
				out.Results = append(out.Results, &BodyQueryResult{
					Index:    i,
					MimeType: body.MimeType,
					Mode:     modeOrDetected(input.Mode, body.MimeType),
					Values:   []any{},
					Errors:   []string{err.Error()},
				})
				continue
			}
			if !explicit && len(res.Values) == 0 {
				continue
			}
			out.Results = append(out.Results, &BodyQueryResult{
				Index:    i,
				MimeType: body.MimeType,
				Mode:     res.Mode,
				Values:   res.Values,
				Errors:   res.Errors,
			})
		}

		switch {
		case len(out.Results) == 0 && explicit:
			out.Hint = "None of the selected entries has a text body on this side."
		case len(out.Results) == 0:
			out.Hint = "No body produced values. Narrow with indexes, or set mode explicitly."
		default:
			out.Hint = fmt.Sprintf("%d bodies matched. Use har_get_entry for full content.", len(out.Results))
		}
		return nil, out, nil
	}
}

func modeOrDetected(mode, mimeType string) string {
	if mode != "" {
		return mode
	}
	return bodyquery.DetectMode(mimeType)
}
