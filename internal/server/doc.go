// Package server implements the MCP (Model Context Protocol) server that
// exposes the node catalog as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
// Every registered node becomes one tool named after its type with dots
// replaced by underscores, so lib.grid.SliceImageGrid is called as
// lib_grid_SliceImageGrid. The input schema is derived from the node's
// fields: defaults come from the catalog, bounds and enums from validation
// tags.
//
// Image arguments accept a path, a file://, data: or asset:// URI, or an
// image reference object returned by an earlier call. Results that are
// image references are returned both as JSON text and as MCP image content.
//
// The workflow_run tool takes HCL workflow source plus input values and
// runs it in a single call.
//
// # Error Handling
//
// Errors are returned as JSON-RPC error responses:
//   - -32602: invalid params, unknown tools and bad node arguments
//   - -32000: the node failed while running
//   - -32601: unknown method
//
// # Usage
//
//	srv := server.New(node.NewCatalog(), assets, server.Options{Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    logger.Fatal(err)
//	}
package server
