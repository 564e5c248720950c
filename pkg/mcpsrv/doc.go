// Package mcpsrv provides an extensible MCP server for HAR archives.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin har_* tools and har:// resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with default configuration:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools that reuse the archive store:
//
//	type CountInput struct {
//	    Path string `json:"path"`
//	}
//
//	type CountOutput struct {
//	    Entries int `json:"entries"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(
//	        &mcp.Tool{Name: "count_entries", Description: "Count entries"},
//	        func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	                a, err := d.Store.Load(ctx, in.Path)
//	                if err != nil {
//	                    return nil, CountOutput{}, err
//	                }
//	                return nil, CountOutput{Entries: len(a.HAR.Entries())}, nil
//	            }
//	        },
//	    ),
//	)
//
// # Configuration
//
// Configuration is read from the environment (HAR_ROOT, LOG_LEVEL, ...) and
// can be overridden with options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithHARRoot("/data/captures"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/har-mcp.log"),
//	)
package mcpsrv
