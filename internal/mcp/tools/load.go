package tools

import (
	"context"
	"fmt"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/archive"
	"github.com/usestring/harkit/pkg/wire"
)

// LoadInput is the input for har_load.
type LoadInput struct {
	Paths []string `json:"paths" jsonschema:"One or more HAR file paths, relative to the archive root"`
}

// LoadOutput is the output for har_load.
type LoadOutput struct {
	Archives []ArchiveSummary `json:"archives,omitzero"`
	Hint     string           `json:"hint,omitempty"`
}

// ArchiveSummary describes one loaded archive.
type ArchiveSummary struct {
	Path       string      `json:"path"`
	Version    string      `json:"version"`
	Creator    *AppInfo    `json:"creator,omitempty"`
	Browser    *AppInfo    `json:"browser,omitempty"`
	Comment    string      `json:"comment,omitempty"`
	Pages      []PageInfo  `json:"pages,omitzero"`
	EntryCount int         `json:"entry_count"`
	Hosts      []HostCount `json:"hosts,omitzero"`
	Extensions []string    `json:"extensions,omitzero"`
}

// AppInfo names a creator or browser.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PageInfo summarizes a page.
type PageInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	StartedAt  string `json:"started_at,omitempty"`
	EntryCount int    `json:"entry_count"`
}

// HostCount is the number of entries for one host.
type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// maxHostsListed caps the host breakdown of a summary.
const maxHostsListed = 20

// ToolLoad loads archives and summarizes them.
func ToolLoad(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadInput) (*sdkmcp.CallToolResult, LoadOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LoadInput) (*sdkmcp.CallToolResult, LoadOutput, error) {
		if len(input.Paths) == 0 {
			return nil, LoadOutput{}, ErrInvalidInput("paths is required")
		}

		archives, err := d.Store.LoadMany(ctx, input.Paths)
		if err != nil {
			return nil, LoadOutput{}, WrapArchiveError(fmt.Sprint(input.Paths), err)
		}

		out := LoadOutput{Archives: make([]ArchiveSummary, 0, len(archives))}
		for _, a := range archives {
			out.Archives = append(out.Archives, summarize(a))
		}

		if len(out.Archives) == 1 && out.Archives[0].EntryCount == 0 {
			out.Hint = "Archive has no entries."
		} else {
			out.Hint = "Use har_search_entries to find entries, or har_query to run jq over the archive."
		}
		return nil, out, nil
	}
}

func summarize(a *archive.Archive) ArchiveSummary {
	h := a.HAR
	s := ArchiveSummary{
		Path:       a.Path,
		Version:    h.Version(),
		EntryCount: len(h.Entries()),
	}
	if h.Log != nil {
		s.Comment = h.Log.Comment
		s.Extensions = extensionKeys(&h.Log.Model)
	}
	if c := h.Creator(); c != nil {
		s.Creator = &AppInfo{Name: c.Name, Version: c.Version}
	}
	if b := h.Browser(); b != nil {
		s.Browser = &AppInfo{Name: b.Name, Version: b.Version}
	}

	perPage := make(map[string]int)
	for _, e := range h.Entries() {
		if e != nil && e.Pageref != nil {
			perPage[*e.Pageref]++
		}
	}
	for _, p := range h.Pages() {
		if p == nil {
			continue
		}
		info := PageInfo{ID: p.ID, Title: p.Title, EntryCount: perPage[p.ID]}
		if p.StartedDateTime != nil {
			info.StartedAt = wire.FormatDate(*p.StartedDateTime)
		}
		s.Pages = append(s.Pages, info)
	}

	for host, n := range a.Index().HostCounts() {
		s.Hosts = append(s.Hosts, HostCount{Host: host, Count: n})
	}
	sort.Slice(s.Hosts, func(i, j int) bool {
		if s.Hosts[i].Count != s.Hosts[j].Count {
			return s.Hosts[i].Count > s.Hosts[j].Count
		}
		return s.Hosts[i].Host < s.Hosts[j].Host
	})
	if len(s.Hosts) > maxHostsListed {
		s.Hosts = s.Hosts[:maxHostsListed]
	}

	return s
}
