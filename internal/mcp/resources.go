package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harkit/internal/mcp/tools"
	"github.com/usestring/harkit/pkg/har"
)

// Resource URI scheme: har://
// Supported URIs:
//   har://schema
//   har://entry/{index}?path={path}

const schemaURI = "har://schema"

// registerResources registers resources, templates and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         schemaURI,
		Name:        "HAR JSON Schema",
		Description: "JSON Schema (draft 2020-12) of HAR documents as loaded by this server. Same content as the har_schema tool.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "har://entry/{index}{?path}",
		Name:        "HAR Entry",
		Description: "One entry of a HAR file in full wire form, including response content. High context cost - har_get_entry returns the same entry with content trimmed.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceEntry)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	return toResourceResult(req.Params.URI, har.JSONSchema())
}

func (s *Server) handleResourceEntry(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	path, index, err := parseEntryURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	a, err := s.deps.LoadArchive(ctx, path)
	if err != nil {
		return nil, err
	}
	entries := a.HAR.Entries()
	if index >= len(entries) || entries[index] == nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	return toResourceResult(req.Params.URI, entries[index].Dump())
}

// parseEntryURI extracts the archive path and entry index from a
// har://entry/{index}?path=... URI.
func parseEntryURI(uri string) (string, int, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", 0, tools.ErrInvalidInput(fmt.Sprintf("invalid resource URI: %v", err))
	}
	if u.Scheme != "har" || u.Host != "entry" {
		return "", 0, tools.ErrInvalidInput("invalid URI: expected har://entry/{index}?path={path}")
	}

	index, err := strconv.Atoi(strings.Trim(u.Path, "/"))
	if err != nil || index < 0 {
		return "", 0, tools.ErrInvalidInput(fmt.Sprintf("invalid entry index %q", strings.Trim(u.Path, "/")))
	}

	path := u.Query().Get("path")
	if path == "" {
		return "", 0, tools.ErrInvalidInput("entry URI requires a path query parameter")
	}
	return path, index, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
