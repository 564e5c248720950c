package tools

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/indexer"
	"github.com/usestring/harkit/internal/search"
	"github.com/usestring/harkit/pkg/wire"
)

// SearchEntriesInput is the input for har_search_entries.
type SearchEntriesInput struct {
	Path    string                `json:"path" jsonschema:"HAR file path, relative to the archive root"`
	Query   string                `json:"query,omitempty" jsonschema:"Free text over URL host, path, query parameter names and pageref. Tokens are ANDed."`
	Filters *SearchEntriesFilters `json:"filters,omitempty" jsonschema:"Structured filters"`
	Limit   int                   `json:"limit,omitempty" jsonschema:"Max results (default: 20, max: 100)"`
	Offset  int                   `json:"offset,omitempty" jsonschema:"Pagination offset"`
}

// SearchEntriesFilters contains filter criteria for search.
type SearchEntriesFilters struct {
	Host         string  `json:"host,omitempty" jsonschema:"Filter by host. Prefix with '*.' to include subdomains: '*.example.com' matches example.com and api.example.com."`
	Method       string  `json:"method,omitempty" jsonschema:"HTTP method"`
	Status       int     `json:"status,omitempty" jsonschema:"HTTP status code"`
	StatusClass  int     `json:"status_class,omitempty" jsonschema:"Status class: 2 for 2xx, 4 for 4xx, 5 for 5xx"`
	MimeType     string  `json:"mime_type,omitempty" jsonschema:"Response mime type without parameters, e.g. application/json or image/*"`
	Pageref      string  `json:"pageref,omitempty" jsonschema:"Only entries of this page ID"`
	HeaderName   string  `json:"header_name,omitempty" jsonschema:"Filter by header presence on request or response"`
	URLContains  string  `json:"url_contains,omitempty" jsonschema:"URL substring match"`
	BodyContains string  `json:"body_contains,omitempty" jsonschema:"Substring match on request post data or response content text"`
	Since        string  `json:"since,omitempty" jsonschema:"ISO 8601 lower bound on startedDateTime"`
	Until        string  `json:"until,omitempty" jsonschema:"ISO 8601 upper bound on startedDateTime"`
	MinTimeMs    float64 `json:"min_time_ms,omitempty" jsonschema:"Only entries that took at least this long"`
}

// SearchEntriesOutput is the output for har_search_entries.
type SearchEntriesOutput struct {
	Results []*indexer.EntrySummary `json:"results,omitzero"`
	Total   int                     `json:"total"`
	Hint    string                  `json:"hint,omitempty"`
}

// ToolSearchEntries searches the entries of an archive.
func ToolSearchEntries(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEntriesInput) (*sdkmcp.CallToolResult, SearchEntriesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchEntriesInput) (*sdkmcp.CallToolResult, SearchEntriesOutput, error) {
		a, err := d.LoadArchive(ctx, input.Path)
		if err != nil {
			return nil, SearchEntriesOutput{}, err
		}

		limit := input.Limit
		if limit <= 0 {
			limit = d.Config.DefaultSearchLimit
		}

		searchReq := &search.Request{
			Query:  input.Query,
			Limit:  limit,
			Offset: input.Offset,
		}
		if f := input.Filters; f != nil {
			since, err := parseBound("since", f.Since)
			if err != nil {
				return nil, SearchEntriesOutput{}, err
			}
			until, err := parseBound("until", f.Until)
			if err != nil {
				return nil, SearchEntriesOutput{}, err
			}
			searchReq.Filters = &search.Filters{
				Host:         f.Host,
				Method:       f.Method,
				Status:       f.Status,
				StatusClass:  f.StatusClass,
				MimeType:     f.MimeType,
				Pageref:      f.Pageref,
				HeaderName:   f.HeaderName,
				URLContains:  f.URLContains,
				BodyContains: f.BodyContains,
				Since:        since,
				Until:        until,
				MinTimeMs:    f.MinTimeMs,
			}
		}

		resp := search.New(a.Index(), a.HAR).Search(searchReq)

		out := SearchEntriesOutput{Total: resp.Total}
		for _, meta := range resp.Results {
			out.Results = append(out.Results, meta.ToSummary())
		}

		switch {
		case len(out.Results) == 0:
			out.Hint = "No matches found. Loosen the filters or check the path."
		case resp.Total > input.Offset+len(out.Results):
			out.Hint = fmt.Sprintf("Showing %d of %d. Use offset=%d for the next page.", len(out.Results), resp.Total, input.Offset+len(out.Results))
		case len(out.Results) == 1:
			out.Hint = fmt.Sprintf("Single match. Use har_get_entry(index=%d) for full details.", out.Results[0].Index)
		default:
			out.Hint = "Use har_get_entry with an index for details."
		}
		return nil, out, nil
	}
}

func parseBound(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := wire.ParseDate(s)
	if err != nil {
		return nil, ErrInvalidInput(fmt.Sprintf("%s: %v", name, err))
	}
	return &t, nil
}
