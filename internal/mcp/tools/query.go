package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/query"
)

// QueryInput is the input for har_query.
type QueryInput struct {
	Path        string `json:"path" jsonschema:"HAR file path, relative to the archive root"`
	Expression  string `json:"expression" jsonschema:"jq expression. Keys are HAR camelCase, e.g. .log.entries[].request.url"`
	Scope       string `json:"scope,omitempty" jsonschema:"document (default) runs once over the whole archive; entries runs once per entry with $label set to entries[i]"`
	Indexes     []int  `json:"indexes,omitempty" jsonschema:"With scope=entries, only these entry indexes"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default and cap: MAX_QUERY_RESULTS)"`
}

// QueryOutput is the output for har_query.
type QueryOutput struct {
	Values        []any    `json:"values,omitzero"`
	Errors        []string `json:"errors,omitzero"`
	RawCount      int      `json:"raw_count"`
	MatchedLabels []string `json:"matched_labels,omitzero"`
	Truncated     bool     `json:"truncated,omitempty"`
	Hint          string   `json:"hint,omitempty"`
}

// ToolQuery runs a jq expression over the wire form of an archive.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if input.Expression == "" {
			return nil, QueryOutput{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}

		a, err := d.LoadArchive(ctx, input.Path)
		if err != nil {
			return nil, QueryOutput{}, err
		}

		maxResults := input.MaxResults
		if maxResults <= 0 || maxResults > d.Config.MaxQueryResults {
			maxResults = d.Config.MaxQueryResults
		}
		opts := query.Options{Deduplicate: input.Deduplicate, MaxResults: maxResults}

		var inputs []query.Input
		switch input.Scope {
		case "", "document":
			inputs = []query.Input{{Label: "document", Value: a.HAR.Dump()}}
		case "entries":
			indexes := input.Indexes
			if len(indexes) == 0 {
				indexes = make([]int, len(a.HAR.Entries()))
				for i := range indexes {
					indexes[i] = i
				}
			}
			for _, i := range indexes {
				entry, err := entryAt(a.HAR, i)
				if err != nil {
					return nil, QueryOutput{}, err
				}
				inputs = append(inputs, query.Input{Label: fmt.Sprintf("entries[%d]", i), Value: entry.Dump()})
			}
		default:
			return nil, QueryOutput{}, ErrInvalidInput("scope must be 'document' or 'entries'")
		}

		result, err := d.Query.Run(inputs, input.Expression, opts)
		if err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}

		out := QueryOutput{
			Values:        result.Values,
			Errors:        result.Errors,
			RawCount:      result.RawCount,
			MatchedLabels: result.MatchedLabels,
			Truncated:     result.Truncated,
		}
		switch {
		case result.Truncated:
			out.Hint = fmt.Sprintf("Stopped at %d values. Narrow the expression or raise max_results.", len(result.Values))
		case len(result.Values) == 0 && len(result.Errors) > 0:
			out.Hint = "No values; see errors. Paths use camelCase wire keys."
		case len(result.Values) == 0:
			out.Hint = "Expression produced no values."
		}
		return nil, out, nil
	}
}
