package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_load",
		Description: "Load one or more HAR files and summarize them: version, creator, browser, pages with entry counts, total entries, busiest hosts and log-level extension keys. Paths are relative to the archive root.",
	}, ToolLoad(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_validate",
		Description: "Check a HAR document (by path or inline content) against the HAR JSON Schema and try to load it. Returns schema_errors with JSON pointer paths and, when loading fails, load_error with the entity, field and wire path at fault.",
	}, ToolValidate(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_schema",
		Description: "Return the JSON Schema (draft 2020-12) describing HAR documents as this server loads them.",
	}, ToolSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_search_entries",
		Description: "Search entries of a HAR file with filters (host, method, status, status_class, mime_type, pageref, header_name, url_contains, body_contains, since/until, min_time_ms) and free text. Results are in log order and carry the entry index for har_get_entry.",
	}, ToolSearchEntries(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_get_entry",
		Description: "Get one entry of a HAR file in its wire form, with a summary. Response content text is omitted unless include_content=true; base64 content is decoded.",
	}, ToolGetEntry(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_query",
		Description: "Run a jq expression over a HAR file. scope=document queries the whole archive once; scope=entries queries each entry with $label bound to entries[i]. Keys are the camelCase HAR wire keys.",
	}, ToolQuery(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_query_body",
		Description: "Extract values from entry bodies. The language follows each body's MIME type unless mode is set: jq for JSON and YAML, CSS selectors for HTML (selector@attr for attributes), XPath for XML, keys for form data, regex otherwise. side=request queries post data. Base64 content is decoded; binary bodies are skipped.",
	}, ToolQueryBody(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_normalize",
		Description: "Load a HAR file and dump it back in canonical form: every declared key present with its default, extension keys (leading underscore) kept, other unknown keys dropped. Returns the document or writes it to output_path.",
	}, ToolNormalize(d))
}
